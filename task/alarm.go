package task

import (
	"io"
	"math"
	"time"

	"github.com/hajimehoshi/oto/v2"
)

const (
	alarmSampleRate = 44100
	alarmFrequency  = 880  // 提示音频率（Hz）
	alarmDuration   = 0.12 // 提示音时长（秒）
)

// Alarm 紧急修正提示音
// 功能：在发生紧急安全修正时播放一声短促的正弦提示音
// 说明：声音合成在初始化时一次完成，播放是即发即弃的，
// 不会阻塞仿真循环；音频设备未就绪时静默跳过
type Alarm struct {
	ctx     *oto.Context
	ready   chan struct{}
	samples []byte
}

// NewAlarm 创建提示音播放器
// 返回：播放器实例和可能的错误（如环境中没有可用的音频设备）
func NewAlarm() (*Alarm, error) {
	ctx, ready, err := oto.NewContext(alarmSampleRate, 1, 2)
	if err != nil {
		return nil, err
	}
	return &Alarm{
		ctx:     ctx,
		ready:   ready,
		samples: genBeep(),
	}, nil
}

// Play 播放一声提示音
// 说明：音频设备未就绪时直接返回，不等待
func (a *Alarm) Play() {
	select {
	case <-a.ready:
	default:
		return
	}
	go func() {
		player := a.ctx.NewPlayer(&sampleReader{data: a.samples})
		player.Play()
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		player.Close()
	}()
}

// genBeep 合成提示音采样（16位单声道正弦，带指数衰减包络）
func genBeep() []byte {
	n := int(alarmDuration * alarmSampleRate)
	buf := make([]byte, n*2)
	for i := 0; i < n; i++ {
		t := float64(i) / alarmSampleRate
		p := float64(i) / float64(n)
		env := math.Exp(-p * 5)
		s := math.Sin(2*math.Pi*alarmFrequency*t) * env * 0.6
		v := int16(s * math.MaxInt16)
		buf[i*2] = byte(v)
		buf[i*2+1] = byte(v >> 8)
	}
	return buf
}

type sampleReader struct {
	data []byte
	pos  int
}

func (r *sampleReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}
