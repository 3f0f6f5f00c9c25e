// Package main 启动应用程序
package main

import "github.com/yvesmh/harmonia/pkg/cmd"

//	@title			Harmonia API
//	@version		1.0
//	@description	Harmonia 是音乐学校管理系统的上传经纪服务，负责教学素材与画廊图片的两阶段直传、所有权裁决和生命周期对账。

//	@license.name	MIT
//	@license.url	https://opensource.org/license/mit/

func main() {
	if err := cmd.Execute(); err != nil {
		panic(err)
	}
}
