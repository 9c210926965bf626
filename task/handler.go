package task

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/lanesim/lanesim/entity/vehicle"
	"github.com/lanesim/lanesim/utils/config"
)

// Handler 仿真事件处理器
// 功能：在仿真的特定时刻被驱动循环回调，用于收集统计或修改车辆行为，
// 具体处理器只需嵌入BaseHandler并覆写感兴趣的方法
type Handler interface {
	BeforeTimeStep(dt, simTime float64)
	AfterTimeStep(dt, simTime float64)
	BeforeVehicleUpdate(dt float64, v *vehicle.Vehicle)
	AfterVehicleUpdate(dt float64, v *vehicle.Vehicle)
	AfterVehicleSpawn(v *vehicle.Vehicle, simTime float64)
	BeforeVehicleDespawn(v *vehicle.Vehicle, simTime float64)
	fmt.Stringer
}

// BaseHandler 空事件处理器
type BaseHandler struct{}

func (BaseHandler) BeforeTimeStep(dt, simTime float64) {}

func (BaseHandler) AfterTimeStep(dt, simTime float64) {}

func (BaseHandler) BeforeVehicleUpdate(dt float64, v *vehicle.Vehicle) {}

func (BaseHandler) AfterVehicleUpdate(dt float64, v *vehicle.Vehicle) {}

func (BaseHandler) AfterVehicleSpawn(v *vehicle.Vehicle, simTime float64) {}

func (BaseHandler) BeforeVehicleDespawn(v *vehicle.Vehicle, simTime float64) {}

func (BaseHandler) String() string { return "BaseHandler" }

// SlowZoneHandler 慢行区处理器
// 功能：强制道路某一区段内超速的车辆减速
type SlowZoneHandler struct {
	BaseHandler

	Enabled bool

	start       float64
	stop        float64
	maxVelocity float64
	acc         float64 // 区段内的强制减速度
}

// NewSlowZoneHandler 创建慢行区处理器
// 参数：conf-慢行区配置（[start, stop]区段与最大速度）
func NewSlowZoneHandler(conf config.SlowZone) *SlowZoneHandler {
	return &SlowZoneHandler{
		Enabled:     conf.Enabled,
		start:       conf.Start,
		stop:        conf.Stop,
		maxVelocity: conf.MaxVelocity,
		acc:         -3,
	}
}

func (h *SlowZoneHandler) AfterVehicleUpdate(dt float64, v *vehicle.Vehicle) {
	rt := v.Runtime()
	if h.Enabled && rt.Position > h.start && rt.Position < h.stop {
		if rt.V > h.maxVelocity && rt.A > h.acc {
			v.OverrideA(h.acc)
		}
	}
}

func (h *SlowZoneHandler) String() string {
	return fmt.Sprintf("SlowZoneHandler: [%v, %v] max_velocity=%.2f", h.start, h.stop, h.maxVelocity)
}

// AverageSpeedHandler 平均速度处理器
// 功能：跟踪道路上车辆的平均速度
type AverageSpeedHandler struct {
	BaseHandler

	speedSum    float64
	vehicleCnt  int
	updateCount int

	averages []float64
	simTimes []float64
}

func NewAverageSpeedHandler() *AverageSpeedHandler {
	return &AverageSpeedHandler{}
}

func (h *AverageSpeedHandler) AfterVehicleUpdate(dt float64, v *vehicle.Vehicle) {
	h.speedSum += v.Runtime().V
	h.vehicleCnt++
}

// AfterTimeStep 每两个模拟步汇总一次平均速度
func (h *AverageSpeedHandler) AfterTimeStep(dt, simTime float64) {
	h.updateCount++
	if h.updateCount > 1 {
		if h.vehicleCnt > 0 {
			h.averages = append(h.averages, h.speedSum/float64(h.vehicleCnt))
			h.simTimes = append(h.simTimes, simTime)
			h.speedSum = 0
			h.vehicleCnt = 0
		}
		h.updateCount = 0
	}
}

// Averages 获取平均速度序列
func (h *AverageSpeedHandler) Averages() []float64 {
	return h.averages
}

func (h *AverageSpeedHandler) String() string {
	if len(h.averages) == 0 {
		return "AverageSpeedHandler: no samples"
	}
	return fmt.Sprintf("AverageSpeedHandler: mean=%.2f m/s over %d samples",
		lo.Sum(h.averages)/float64(len(h.averages)), len(h.averages))
}

// ThroughputHandler 吞吐量处理器
// 功能：按固定间隔统计驶出路段的车辆数
type ThroughputHandler struct {
	BaseHandler

	interval float64 // 统计间隔（秒）
	count    int
	counts   []int
}

func NewThroughputHandler() *ThroughputHandler {
	return &ThroughputHandler{interval: 15}
}

func (h *ThroughputHandler) BeforeVehicleDespawn(v *vehicle.Vehicle, simTime float64) {
	h.count++
}

func (h *ThroughputHandler) AfterTimeStep(dt, simTime float64) {
	if simTime >= float64(len(h.counts)+1)*h.interval {
		h.counts = append(h.counts, h.count)
		h.count = 0
	}
}

// Counts 获取每个间隔的吞吐量序列
func (h *ThroughputHandler) Counts() []int {
	return h.counts
}

func (h *ThroughputHandler) String() string {
	if len(h.counts) == 0 {
		return "ThroughputHandler: no samples"
	}
	return fmt.Sprintf("ThroughputHandler: avg/min/max=%.2f/%d/%d vehicles per %.0fs",
		float64(lo.Sum(h.counts))/float64(len(h.counts)), lo.Min(h.counts), lo.Max(h.counts), h.interval)
}

// TravelTimeHandler 通行时间处理器
// 功能：统计车辆从生成到驶出路段所用的仿真时间
type TravelTimeHandler struct {
	BaseHandler

	spawnTimes  map[*vehicle.Vehicle]float64
	travelTimes []float64
}

func NewTravelTimeHandler() *TravelTimeHandler {
	return &TravelTimeHandler{spawnTimes: make(map[*vehicle.Vehicle]float64)}
}

func (h *TravelTimeHandler) AfterVehicleSpawn(v *vehicle.Vehicle, simTime float64) {
	h.spawnTimes[v] = simTime
}

func (h *TravelTimeHandler) BeforeVehicleDespawn(v *vehicle.Vehicle, simTime float64) {
	if spawnT, ok := h.spawnTimes[v]; ok {
		h.travelTimes = append(h.travelTimes, simTime-spawnT)
		delete(h.spawnTimes, v)
	}
}

// TravelTimes 获取完成通行的时间序列
func (h *TravelTimeHandler) TravelTimes() []float64 {
	return h.travelTimes
}

func (h *TravelTimeHandler) String() string {
	if len(h.travelTimes) == 0 {
		return "TravelTimeHandler: no samples"
	}
	return fmt.Sprintf("TravelTimeHandler: avg/min/max=%.2f/%.2f/%.2f s",
		lo.Sum(h.travelTimes)/float64(len(h.travelTimes)), lo.Min(h.travelTimes), lo.Max(h.travelTimes))
}

// VehicleCountHandler 在途车辆数处理器
// 功能：跟踪每个模拟步道路上的车辆数
type VehicleCountHandler struct {
	BaseHandler

	count  int
	counts []int
}

func NewVehicleCountHandler() *VehicleCountHandler {
	return &VehicleCountHandler{}
}

func (h *VehicleCountHandler) BeforeVehicleUpdate(dt float64, v *vehicle.Vehicle) {
	h.count++
}

func (h *VehicleCountHandler) AfterTimeStep(dt, simTime float64) {
	h.counts = append(h.counts, h.count)
	h.count = 0
}

// Counts 获取每步的在途车辆数序列
func (h *VehicleCountHandler) Counts() []int {
	return h.counts
}

func (h *VehicleCountHandler) String() string {
	if len(h.counts) == 0 {
		return "VehicleCountHandler: no samples"
	}
	return fmt.Sprintf("VehicleCountHandler: max=%d vehicles on road", lo.Max(h.counts))
}

// StatsHandler 基础统计处理器
// 功能：统计驶出路段的车辆总数
type StatsHandler struct {
	BaseHandler

	despawned int
}

func NewStatsHandler() *StatsHandler {
	return &StatsHandler{}
}

func (h *StatsHandler) BeforeVehicleDespawn(v *vehicle.Vehicle, simTime float64) {
	h.despawned++
}

// Despawned 获取驶出路段的车辆总数
func (h *StatsHandler) Despawned() int {
	return h.despawned
}

func (h *StatsHandler) String() string {
	return fmt.Sprintf("StatsHandler: despawned=%d", h.despawned)
}
