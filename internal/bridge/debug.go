package bridge

import (
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"
)

// DecodeDebugString maps each byte to the character with the same code
// point. It is only meant for the module's ASCII diagnostics; multi-byte
// UTF-8 comes out as mojibake.
func DecodeDebugString(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		sb.WriteRune(rune(c))
	}
	return sb.String()
}

// MaxLineLen bounds a message line in bytes. Longer unterminated output is
// broken into lines of this size.
const MaxLineLen = 256

// MessageLog collects the free-form text the module streams through its
// log_write channel, keeping at most limit lines.
type MessageLog struct {
	mu      sync.Mutex
	limit   int
	lines   []string
	partial strings.Builder
}

func NewMessageLog(limit int) *MessageLog {
	return &MessageLog{limit: limit}
}

// Write appends text; lines are split on '\n' and at MaxLineLen.
func (m *MessageLog) Write(s string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for len(s) > 0 {
		i := strings.IndexByte(s, '\n')
		end := len(s)
		if i >= 0 {
			end = i
		}
		if room := MaxLineLen - m.partial.Len(); end > room {
			cut := room
			for cut > 0 && !utf8.RuneStart(s[cut]) {
				cut--
			}
			m.partial.WriteString(s[:cut])
			m.flush()
			s = s[cut:]
			continue
		}
		m.partial.WriteString(s[:end])
		if i < 0 {
			return
		}
		m.flush()
		s = s[i+1:]
	}
}

func (m *MessageLog) flush() {
	m.lines = append(m.lines, m.partial.String())
	m.partial.Reset()
	if len(m.lines) > m.limit {
		m.lines = m.lines[len(m.lines)-m.limit:]
	}
}

// Lines returns complete lines followed by any unterminated tail.
func (m *MessageLog) Lines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, len(m.lines), len(m.lines)+1)
	copy(out, m.lines)
	if m.partial.Len() > 0 {
		out = append(out, m.partial.String())
	}
	return out
}

// DebugSink receives the three diagnostic channels of the module.
type DebugSink struct {
	Logger   *zap.Logger
	Messages *MessageLog
}

func (d DebugSink) Log(b []byte) {
	d.Logger.Info(DecodeDebugString(b), zap.String("channel", "js_log"))
}

func (d DebugSink) Err(b []byte) {
	d.Logger.Error(DecodeDebugString(b), zap.String("channel", "js_err"))
}

func (d DebugSink) Write(b []byte) {
	s := DecodeDebugString(b)
	d.Logger.Debug("module output", zap.String("channel", "log_write"), zap.String("text", s))
	if d.Messages != nil {
		d.Messages.Write(s)
	}
}
