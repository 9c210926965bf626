package config

import (
	"fmt"
	"math"
)

// RuntimeConfig 运行时配置
// 功能：存储仿真运行时的配置信息，包含填充默认值后的控制配置
// 说明：将YAML配置转换为运行时可用的配置对象
type RuntimeConfig struct {
	All Config  // 全部配置
	C   Control // 全局控制配置（已填充默认值）
}

// NewRuntimeConfig 根据配置初始化运行时配置
// 功能：创建运行时配置对象，进行配置验证和默认值填充
// 参数：config-原始配置对象
// 返回：初始化的运行时配置指针和可能的错误
// 算法说明：
// 1. 校验车道数、步长等必要参数
// 2. 设置默认值：speedup为0则取1，fps为0则取round(1/interval)
func NewRuntimeConfig(config Config) (*RuntimeConfig, error) {
	rc := &RuntimeConfig{}

	rc.All = config
	rc.C = config.Control
	if rc.C.Lanes < 1 {
		return nil, fmt.Errorf("config: lanes must be >= 1, got %d", rc.C.Lanes)
	}
	if rc.C.Step.Interval <= 0 {
		return nil, fmt.Errorf("config: step.interval must be > 0, got %v", rc.C.Step.Interval)
	}
	if rc.C.RoadLength <= 0 {
		return nil, fmt.Errorf("config: road_length must be > 0, got %v", rc.C.RoadLength)
	}
	if rc.C.Speedup == 0 {
		rc.C.Speedup = 1
	}
	if rc.C.FPS == 0 {
		rc.C.FPS = int32(math.Round(1 / rc.C.Step.Interval))
	}

	return rc, nil
}
