package resolver_test

import (
	"testing"

	"github.com/yvesmh/harmonia/pkg/configs"
	"github.com/yvesmh/harmonia/pkg/internal/resolver"
)

func newTestResolver() *resolver.Resolver {
	cfg := &configs.S3Config{
		Endpoint:      "minio.example.com:9000",
		UseSSL:        false,
		PublicBucket:  "harmonia-public",
		GalleryBucket: "harmonia-gallery",
		LegacyBuckets: []string{"musicschool-uploads", "harmonia-media"},
	}

	return resolver.New(cfg)
}

// TestResolveAbsoluteURL 测试绝对 URL 原样透传.
func TestResolveAbsoluteURL(t *testing.T) {
	r := newTestResolver()

	cases := []string{
		"http://cdn.example.com/img/logo.png",
		"https://minio.example.com:9000/harmonia-public/2024/01/cover.jpg",
	}

	for _, in := range cases {
		if got := r.Resolve(in); got != in {
			t.Errorf("Resolve(%q) = %q, want unchanged", in, got)
		}
	}
}

// TestResolveLegacyBucketMarker 测试含弃用桶名的引用重挂到当前公共桶，保留子路径.
func TestResolveLegacyBucketMarker(t *testing.T) {
	r := newTestResolver()

	cases := []struct {
		in   string
		want string
	}{
		{
			in:   "musicschool-uploads/sub/file.jpg",
			want: "http://minio.example.com:9000/harmonia-public/sub/file.jpg",
		},
		{
			in:   "uploads/musicschool-uploads/gallery/2019/photo.png",
			want: "http://minio.example.com:9000/harmonia-public/gallery/2019/photo.png",
		},
		{
			in:   "harmonia-media/docs/partitura.pdf",
			want: "http://minio.example.com:9000/harmonia-public/docs/partitura.pdf",
		},
	}

	for _, c := range cases {
		if got := r.Resolve(c.in); got != c.want {
			t.Errorf("Resolve(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

// TestResolveBareKey 测试裸键前缀到当前公共桶.
func TestResolveBareKey(t *testing.T) {
	r := newTestResolver()

	got := r.Resolve("2024/05/01HXYZ.jpg")
	want := "http://minio.example.com:9000/harmonia-public/2024/05/01HXYZ.jpg"

	if got != want {
		t.Errorf("Resolve bare key = %q, want %q", got, want)
	}

	// 前导斜杠被归一化
	if got := r.Resolve("/2024/05/01HXYZ.jpg"); got != want {
		t.Errorf("Resolve with leading slash = %q, want %q", got, want)
	}
}

// TestResolveMarkerMustBeFullSegment 测试弃用桶名作为子串出现时不触发重挂规则.
func TestResolveMarkerMustBeFullSegment(t *testing.T) {
	r := newTestResolver()

	in := "musicschool-uploads-backup/file.jpg"
	want := "http://minio.example.com:9000/harmonia-public/musicschool-uploads-backup/file.jpg"

	if got := r.Resolve(in); got != want {
		t.Errorf("Resolve(%q) = %q, want %q", in, got, want)
	}
}

// TestResolveEmpty 测试空引用返回空串.
func TestResolveEmpty(t *testing.T) {
	r := newTestResolver()

	if got := r.Resolve(""); got != "" {
		t.Errorf("Resolve(\"\") = %q, want \"\"", got)
	}
}

// TestResolveInGalleryBucket 测试裸键按逻辑桶落位，遗留引用仍回到公共桶.
func TestResolveInGalleryBucket(t *testing.T) {
	r := newTestResolver()

	got := r.ResolveIn(configs.BucketGallery, "2024/06/01HABC.png")
	want := "http://minio.example.com:9000/harmonia-gallery/2024/06/01HABC.png"

	if got != want {
		t.Errorf("ResolveIn gallery = %q, want %q", got, want)
	}

	// 遗留桶名引用与桶类型无关，统一重挂到当前公共桶
	got = r.ResolveIn(configs.BucketGallery, "musicschool-uploads/gallery/old.png")
	want = "http://minio.example.com:9000/harmonia-public/gallery/old.png"

	if got != want {
		t.Errorf("ResolveIn legacy = %q, want %q", got, want)
	}

	// 绝对 URL 原样透传
	abs := "https://cdn.example.com/x.png"
	if got := r.ResolveIn(configs.BucketGallery, abs); got != abs {
		t.Errorf("ResolveIn absolute = %q, want unchanged", got)
	}
}

// TestURLFor 测试已知桶类型的直接 URL 生成.
func TestURLFor(t *testing.T) {
	r := newTestResolver()

	got := r.URLFor(configs.BucketGallery, "/2024/06/a.png")
	want := "http://minio.example.com:9000/harmonia-gallery/2024/06/a.png"

	if got != want {
		t.Errorf("URLFor = %q, want %q", got, want)
	}
}

// TestResolveHTTPSEndpoint 测试启用 SSL 时生成 https URL.
func TestResolveHTTPSEndpoint(t *testing.T) {
	cfg := &configs.S3Config{
		Endpoint:     "s3.school.example",
		UseSSL:       true,
		PublicBucket: "harmonia-public",
	}
	r := resolver.New(cfg)

	got := r.Resolve("cover.jpg")
	want := "https://s3.school.example/harmonia-public/cover.jpg"

	if got != want {
		t.Errorf("Resolve = %q, want %q", got, want)
	}
}
