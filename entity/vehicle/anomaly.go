package vehicle

// AnomalyEvent 紧急修正异常事件
// 功能：描述一次碰撞安全修正，由运动学推进在修正发生时发出
type AnomalyEvent struct {
	Vehicle *Vehicle // 被修正的车辆
	Front   *Vehicle // 触发修正的前车
}

// AnomalySink 异常事件接收器
// 功能：由外部效果处理器实现（计数、告警、声音提示等），
// 使数值核心不直接持有任何设备或I/O副作用
type AnomalySink interface {
	EmergencyCorrected(ev AnomalyEvent)
}
