package task

import (
	"flag"

	"github.com/lanesim/lanesim/clock"
	"github.com/lanesim/lanesim/entity/road"
	"github.com/lanesim/lanesim/entity/vehicle"
	"github.com/lanesim/lanesim/utils/config"
	"github.com/lanesim/lanesim/utils/randengine"
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 100, "心跳日志间隔步数")
)

// Context 仿真任务上下文
// 功能：包含一次仿真任务的所有变量和状态
// 说明：管理仿真系统的所有组件，包括时钟、道路、车辆生命周期管理器、
// 事件处理器与异常统计；同时作为车辆紧急修正事件的接收器
type Context struct {

	// 时钟
	clock *clock.Clock

	// 道路容器
	road *road.Road
	// 车辆生命周期管理器
	manager *road.Manager

	// 运行时配置文件
	runtimeConfig *config.RuntimeConfig
	// 随机数引擎
	generator *randengine.Engine

	// 事件处理器，按注册顺序回调
	handlers []Handler

	// 紧急修正计数
	anomalies int
	// 紧急修正提示音（sound关闭或设备不可用时为nil）
	alarm *Alarm
}

// NewContext 创建新的仿真任务上下文
// 功能：初始化仿真系统的所有组件和配置
// 参数：c-配置对象，seed-随机数种子
// 返回：初始化完成的Context实例和可能的错误
// 算法说明：
// 1. 校验配置并构造运行时配置
// 2. 创建时钟、随机数引擎、道路容器与车辆生命周期管理器
// 3. 注册默认事件处理器（慢行区、各统计处理器）
// 4. 按配置初始化提示音（失败时降级为静默并告警）
func NewContext(c config.Config, seed uint64) (*Context, error) {
	rc, err := config.NewRuntimeConfig(c)
	if err != nil {
		return nil, err
	}
	ctx := &Context{
		runtimeConfig: rc,
		generator:     randengine.New(seed),
	}
	ctx.clock = clock.New(c.Control.Step)
	ctx.road = road.New(&rc.C)
	ctx.manager, err = road.NewManager(rc, ctx.road, ctx.generator)
	if err != nil {
		return nil, err
	}

	ctx.AddHandler(NewSlowZoneHandler(c.SlowZone))
	ctx.AddHandler(NewAverageSpeedHandler())
	ctx.AddHandler(NewThroughputHandler())
	ctx.AddHandler(NewTravelTimeHandler())
	ctx.AddHandler(NewVehicleCountHandler())
	ctx.AddHandler(NewStatsHandler())

	if rc.C.Sound {
		if alarm, err := NewAlarm(); err != nil {
			log.Warnf("sound disabled: %v", err)
		} else {
			ctx.alarm = alarm
		}
	}
	return ctx, nil
}

// AddHandler 注册事件处理器
func (ctx *Context) AddHandler(h Handler) {
	ctx.handlers = append(ctx.handlers, h)
}

func (ctx *Context) Clock() *clock.Clock {
	return ctx.clock
}

func (ctx *Context) Road() *road.Road {
	return ctx.road
}

func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

// Anomalies 获取累计紧急修正次数
func (ctx *Context) Anomalies() int {
	return ctx.anomalies
}

// EmergencyCorrected 接收车辆紧急修正事件
// 说明：实现vehicle.AnomalySink，累加计数并播放提示音
func (ctx *Context) EmergencyCorrected(ev vehicle.AnomalyEvent) {
	ctx.anomalies++
	if ctx.alarm != nil {
		ctx.alarm.Play()
	}
}

// prepare 准备阶段，每步执行一次
// 功能：在每个仿真步骤开始时进行准备工作
// 算法说明：
// 1. 更新时钟：增加内部步数并计算当前时间
// 2. 心跳日志：定期输出系统状态信息
// 3. 道路准备：提升所有车辆快照并重建车道索引
// 说明：确保本步所有邻车查询观察到一致的上一步状态
func (ctx *Context) prepare() {
	ctx.clock.Step()

	if ctx.clock.InternalStep%int32(*heartBeatInterval) == 0 {
		hour, minute, second := ctx.clock.GetHourMinuteSecond()
		log.Infof(
			"STEP: %d(%d:%d:%.2f) vehicles=%d anomalies=%d",
			ctx.clock.InternalStep,
			hour, minute, second,
			ctx.road.Count(), ctx.anomalies,
		)
	}

	ctx.road.Prepare()
}

// update 更新阶段，每步执行一次
// 功能：在每个仿真步骤中执行主要的仿真逻辑
// 算法说明：
// 1. 生成车辆：到达生成时刻后在道路起点生成新车
// 2. 车辆更新：按加入顺序依次推进每辆车一个时间步
// 3. 移除车辆：移除驶出路段的车辆
// 4. 事件回调：各阶段前后回调已注册的事件处理器
func (ctx *Context) update() {
	dt := ctx.clock.DT
	simTime := ctx.clock.T

	for _, h := range ctx.handlers {
		h.BeforeTimeStep(dt, simTime)
	}

	for _, v := range ctx.manager.Spawn(simTime) {
		v.SetAnomalySink(ctx)
		for _, h := range ctx.handlers {
			h.AfterVehicleSpawn(v, simTime)
		}
	}

	for _, v := range ctx.road.Vehicles() {
		for _, h := range ctx.handlers {
			h.BeforeVehicleUpdate(dt, v)
		}
		v.Update(&ctx.runtimeConfig.C, ctx.road, dt)
		for _, h := range ctx.handlers {
			h.AfterVehicleUpdate(dt, v)
		}
	}

	for _, v := range ctx.manager.Despawn() {
		for _, h := range ctx.handlers {
			h.BeforeVehicleDespawn(v, simTime)
		}
	}

	for _, h := range ctx.handlers {
		h.AfterTimeStep(dt, simTime)
	}
}

// Step 推进一个模拟步（准备阶段+更新阶段）
func (ctx *Context) Step() {
	ctx.prepare()
	ctx.update()
}

// Run 运行
// 功能：从头推进仿真直到结束步，随后输出各处理器的汇总信息
func (ctx *Context) Run() {
	ctx.clock.Init()
	for ctx.clock.InternalStep < ctx.clock.END_STEP {
		ctx.Step()
	}
	log.Infof("engine complete, anomalies=%d", ctx.anomalies)
	for _, h := range ctx.handlers {
		log.Infof("%s", h)
	}
}
