package config

// ControlStep 指定模拟器模拟时间范围和间隔的配置项
// 功能：定义仿真时间控制参数
// 说明：控制仿真的总步数和步长
type ControlStep struct {
	Total    int32   `yaml:"total"`    // 总步数
	Interval float64 `yaml:"interval"` // 每步的时间间隔（秒）
}

// Control 模拟器控制配置
// 功能：定义仿真系统的核心控制参数
// 说明：包含时间控制、道路参数、功能开关等核心配置
type Control struct {
	Step       ControlStep `yaml:"step"`
	Lanes      int         `yaml:"lanes"`             // 车道数（>=1）
	RoadLength float64     `yaml:"road_length"`       // 道路长度（米）
	FPS        int32       `yaml:"fps,omitempty"`     // 每模拟秒的步数，为0则取round(1/interval)
	Speedup    float64     `yaml:"speedup,omitempty"` // 变道冷却实际时间的缩放除数，为0则取1
	Sound      bool        `yaml:"sound,omitempty"`   // 是否在紧急修正时播放声音提示
}

// Spawn 车辆生成配置
// 功能：定义车辆进入道路的节奏与类型构成
type Spawn struct {
	Interval float64            `yaml:"interval"` // 平均生成间隔（模拟秒）
	Mix      map[string]float64 `yaml:"mix"`      // 各类型车辆的生成权重
}

// SlowZone 慢行区配置
// 功能：在道路的某个区段内强制车辆减速
type SlowZone struct {
	Enabled     bool    `yaml:"enabled,omitempty"`
	Start       float64 `yaml:"start"`        // 区段起点（米）
	Stop        float64 `yaml:"stop"`         // 区段终点（米）
	MaxVelocity float64 `yaml:"max_velocity"` // 区段内的最大速度（米/秒）
}

// Config YAML配置文件的根结构
// 功能：定义整个仿真系统的配置结构
type Config struct {
	Control  Control  `yaml:"control"`             // 模拟过程控制
	Spawn    Spawn    `yaml:"spawn"`               // 车辆生成
	SlowZone SlowZone `yaml:"slow_zone,omitempty"` // 慢行区
}
