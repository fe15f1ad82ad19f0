package engines

import (
	"strconv"
	"strings"
	"time"
)

// srtCue is one parsed subtitle cue.
type srtCue struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// parseSRT parses SRT content into ordered cues.
//
//	1									sequence number
//	00:00:00,000 --> 00:00:01,830		start --> end
//	I'm happy to						line
//	have you here today.				line
func parseSRT(content string) []srtCue {
	var cues []srtCue
	var cur *srtCue
	expectSeq := true

	flush := func() {
		if cur != nil {
			cues = append(cues, *cur)
			cur = nil
		}
	}

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)

		if line == "" {
			flush()
			expectSeq = true
			continue
		}

		// A sequence number only appears at the head of a block; a
		// digit-only line inside a block is spoken text.
		if expectSeq && isDigitOnly(line) {
			expectSeq = false
			continue
		}
		expectSeq = false

		if strings.Contains(line, "-->") {
			parts := strings.Split(line, "-->")
			if len(parts) == 2 {
				flush()
				cur = &srtCue{
					Start: parseSRTTime(strings.TrimSpace(parts[0])),
					End:   parseSRTTime(strings.TrimSpace(parts[1])),
				}
			}
			continue
		}

		if cur == nil {
			continue
		}
		if cur.Text == "" {
			cur.Text = line
		} else {
			cur.Text += " " + line
		}
	}

	flush()
	return cues
}

// parseSRTTime parses "HH:MM:SS,mmm" into a duration from stream start.
func parseSRTTime(s string) time.Duration {
	s = strings.ReplaceAll(s, ",", ".")
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0
	}

	hours, _ := strconv.Atoi(parts[0])
	minutes, _ := strconv.Atoi(parts[1])
	seconds, _ := strconv.ParseFloat(parts[2], 64)

	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds*float64(time.Second))
}

func isDigitOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
