package configs

import "github.com/spf13/viper"

// EventsConfig 控制事件发布的开关（全局与分主题）。
type EventsConfig struct {
	Enabled bool              `mapstructure:"enabled"` // 总开关
	Asset   AssetEventsConfig `mapstructure:"asset"`
}

// AssetEventsConfig 针对媒资生命周期的事件开关。
type AssetEventsConfig struct {
	Confirmed  bool `mapstructure:"confirmed"`
	Deleted    bool `mapstructure:"deleted"`
	Reconciled bool `mapstructure:"reconciled"`
}

func (c *EventsConfig) setDefaults(v *viper.Viper) {
	// 总开关：默认启用事件系统
	v.SetDefault("events.enabled", true)

	// 媒资领域的事件：默认开启生命周期转换的最小集
	v.SetDefault("events.asset.confirmed", true)
	v.SetDefault("events.asset.deleted", true)
	v.SetDefault("events.asset.reconciled", false)
}
