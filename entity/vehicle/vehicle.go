package vehicle

import (
	"fmt"
	"math"
	"time"

	"github.com/lanesim/lanesim/utils/config"
	"github.com/lanesim/lanesim/utils/randengine"
)

// Container 道路容器的邻车查询接口
// 功能：由外部道路/车道索引实现，按位置升序回答同车道与相邻车道的最近邻车
// 说明：返回nil表示对应方向没有邻车；变道后通过NotifyLaneChange告知容器原车道，
// 以便容器重建索引
type Container interface {
	Front(v *Vehicle) *Vehicle      // 同车道前方最近车辆
	Back(v *Vehicle) *Vehicle       // 同车道后方最近车辆
	LeftFront(v *Vehicle) *Vehicle  // 左侧车道前方最近车辆
	LeftBack(v *Vehicle) *Vehicle   // 左侧车道后方最近车辆
	RightFront(v *Vehicle) *Vehicle // 右侧车道前方最近车辆
	RightBack(v *Vehicle) *Vehicle  // 右侧车道后方最近车辆

	NotifyLaneChange(v *Vehicle, prevLane int) // 变道通知（参数为原车道）
}

// State 车辆运动状态
// 功能：某一时刻车辆的车道、位置、速度、加速度与安全距离
// 说明：每辆车维护runtime与snapshot两份状态，邻车查询只读取snapshot，
// 保证一个模拟步内任何车辆都观察不到其他车辆未完成的更新
type State struct {
	Lane         int     // 车道序号，[0, lanes)
	Position     float64 // 位置（米）
	V            float64 // 速度（米/秒，>=0）
	A            float64 // 加速度（米/秒²，带符号）
	SafeDistance float64 // 动态安全距离（米）
}

// Vehicle 车辆实体
// 功能：组合运动学推进、分区跟车控制与随机变道决策，
// 由外部驱动循环每步调用一次Update
type Vehicle struct {
	id      int32
	profile Profile   // 不可变常量集
	policy  accPolicy // 分区加速度策略（按类型选择）

	// 行为参数（构造时抽取）
	desiredVelocity       float64
	epsilon               float64
	extremelySafeDistance float64 // 绝对最小间距，Automated锁定区会逐步收紧

	runtime, snapshot State

	emergency      int32     // 紧急修正倒计时（步）
	lastLaneChange time.Time // 上次变道的实际时间

	generator *randengine.Engine
	sink      AnomalySink
	now       func() time.Time // 实际时间来源，测试中可替换
}

// New 创建车辆
// 功能：按类型抽取常量集与行为参数，初始化运动状态
// 参数：id-车辆标识，variant-车辆类型，lane-初始车道，position-初始位置，e-随机数引擎
// 返回：初始化完成的车辆实例
// 说明：车辆由外部容器创建与销毁，核心只负责状态演化
func New(id int32, variant Variant, lane int, position float64, e *randengine.Engine) *Vehicle {
	p, esd, desiredV, epsilon := newProfile(variant, e)
	v := &Vehicle{
		id:                    id,
		profile:               p,
		policy:                policyFor(variant),
		desiredVelocity:       desiredV,
		epsilon:               epsilon,
		extremelySafeDistance: esd,
		generator:             e,
		now:                   time.Now,
	}
	v.runtime = State{
		Lane:         lane,
		Position:     position,
		SafeDistance: esd,
	}
	v.snapshot = v.runtime
	v.lastLaneChange = v.now()
	return v
}

// SetAnomalySink 设置异常事件接收器
// 说明：紧急修正作为领域事件交由外部处理，核心不直接执行任何设备副作用
func (v *Vehicle) SetAnomalySink(sink AnomalySink) {
	v.sink = sink
}

// SetTimeSource 设置实际时间来源
// 说明：变道冷却按实际时间（除以speedup）计算，测试中注入固定时间源
// 以保证结果可复现
func (v *Vehicle) SetTimeSource(now func() time.Time) {
	v.now = now
	v.lastLaneChange = v.now()
}

// getter（读取snapshot，即邻车视角下的上一阶段状态）

func (v *Vehicle) ID() int32 {
	return v.id
}

func (v *Vehicle) Variant() Variant {
	return v.profile.Variant
}

func (v *Vehicle) Profile() Profile {
	return v.profile
}

func (v *Vehicle) Lane() int {
	return v.snapshot.Lane
}

func (v *Vehicle) Position() float64 {
	return v.snapshot.Position
}

func (v *Vehicle) V() float64 {
	return v.snapshot.V
}

func (v *Vehicle) A() float64 {
	return v.snapshot.A
}

func (v *Vehicle) Length() float64 {
	return v.profile.Length
}

func (v *Vehicle) SafeDistance() float64 {
	return v.snapshot.SafeDistance
}

func (v *Vehicle) DesiredVelocity() float64 {
	return v.desiredVelocity
}

func (v *Vehicle) ExtremelySafeDistance() float64 {
	return v.extremelySafeDistance
}

// Emergency 获取紧急修正倒计时（步）
func (v *Vehicle) Emergency() int32 {
	return v.emergency
}

// Runtime 获取本步更新后的运动状态
func (v *Vehicle) Runtime() State {
	return v.runtime
}

// Less 车辆按位置的排序关系
func (v *Vehicle) Less(other *Vehicle) bool {
	return v.snapshot.Position < other.snapshot.Position
}

// OverrideA 外部覆盖加速度
// 说明：供事件处理器（如慢行区）在车辆更新后修改加速度
func (v *Vehicle) OverrideA(a float64) {
	v.runtime.A = a
}

// PrepareSnapshot 把runtime状态提升为snapshot
// 说明：由容器在每步的准备阶段调用，此后本步所有邻车查询都观察该快照
func (v *Vehicle) PrepareSnapshot() {
	v.snapshot = v.runtime
}

// String 获取车辆的可读字符串表示
func (v *Vehicle) String() string {
	return fmt.Sprintf("Vehicle[variant=%s, lane=%2d, pos=%06.2f, vel=%06.2f, acc=%06.2f]",
		v.profile.Variant, v.runtime.Lane, v.runtime.Position, v.runtime.V, v.runtime.A)
}

// Update 按一个时间步推进车辆状态
// 功能：车辆的核心更新契约，依次执行：
// 1. 运动学推进与碰撞安全修正（§运动学）
// 2. 速度钳制与安全距离重算，分区跟车控制计算加速度
// 3. 随机变道决策（至多一次，先右后左）
// 参数：conf-控制配置，c-邻车查询容器，dt-时间步长（秒）
// 说明：无返回值，原地修改runtime状态，变道时通过容器通知原车道
func (v *Vehicle) Update(conf *config.Control, c Container, dt float64) {
	v.integrate(conf, c, dt)

	// 速度不超过期望速度，并据此重算安全距离
	v.runtime.V = math.Min(v.desiredVelocity, v.runtime.V)
	v.runtime.SafeDistance = math.Max(v.extremelySafeDistance, v.runtime.V*v.profile.SafeTime)

	n := v.observe(c)

	// 纵向决策（加速度）
	a := v.policy.calc(v, n.front)
	v.runtime.A = math.Min(v.profile.AMax, a)

	// 横向决策（变道）
	v.planLaneChange(conf, c, n)
}
