package game

import "image/color"

// Notice is a short floating message shown after a bonus pickup.
type Notice struct {
	Text  string
	Color color.RGBA
	life  int
}

// Life returns the ticks left before the notice disappears.
func (n Notice) Life() int { return n.life }

// NoticeLog is a ring buffer of on-screen notices. When full, the oldest
// notice is overwritten.
type NoticeLog struct {
	entries [maxNotices]Notice
	head    int
	count   int
}

// Add appends a notice with a full lifetime.
func (nl *NoticeLog) Add(text string, clr color.RGBA) {
	nl.entries[nl.head] = Notice{Text: text, Color: clr, life: noticeLifeTicks}
	nl.head = (nl.head + 1) % maxNotices
	if nl.count < maxNotices {
		nl.count++
	}
}

// Len returns the number of live notices.
func (nl *NoticeLog) Len() int { return nl.count }

// Recent returns notices in chronological order (oldest first).
func (nl *NoticeLog) Recent() []Notice {
	result := make([]Notice, nl.count)
	for i := 0; i < nl.count; i++ {
		idx := (nl.head - nl.count + i + maxNotices) % maxNotices
		result[i] = nl.entries[idx]
	}
	return result
}

// update ages every notice and drops the expired ones. Notices share one
// lifetime, so the oldest always expire first.
func (nl *NoticeLog) update() {
	live := nl.Recent()
	nl.Clear()
	for _, n := range live {
		n.life--
		if n.life <= 0 {
			continue
		}
		nl.entries[nl.head] = n
		nl.head = (nl.head + 1) % maxNotices
		nl.count++
	}
}

// Clear drops every notice.
func (nl *NoticeLog) Clear() {
	nl.head = 0
	nl.count = 0
}

// Draw stacks the notices near the top of the arena, newest lowest, fading
// out over their last second.
func (nl *NoticeLog) Draw(r Renderer, arena Arena) {
	y := 60.0
	for _, n := range nl.Recent() {
		a := 1.0
		if n.life < 60 {
			a = float64(n.life) / 60
		}
		x := arena.Width/2 - float64(len(n.Text))*3.5
		r.Text(n.Text, x, y, withAlpha(n.Color, a))
		y += 18
	}
}
