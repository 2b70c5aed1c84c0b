// Copyright 2024 dataprep Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package base

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// NormalizeName converts a dataset name or a cache path segment to its
// canonical form: lower case, spaces replaced by underscores, parentheses
// stripped.
func NormalizeName(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "(", "")
	s = strings.ReplaceAll(s, ")", "")
	return s
}

// FormatDuration renders a duration for operator-facing log lines.
func FormatDuration(d time.Duration) string {
	seconds := d.Seconds()
	switch {
	case seconds < 0.001:
		return "<1 ms"
	case seconds < 1:
		return fmt.Sprintf("%.0f ms", 1000*seconds)
	case seconds < 60:
		return fmt.Sprintf("%.3g s", seconds)
	case seconds < 60*60:
		minutes := math.Floor(seconds / 60)
		seconds = math.Mod(seconds, 60)
		if math.Round(seconds) == 60 {
			seconds = 0
			minutes++
		}
		return fmt.Sprintf("%.0fm %.0fs", minutes, seconds)
	default:
		hours := math.Floor(seconds / 60 / 60)
		minutes := math.Floor(math.Mod(seconds/60, 60))
		seconds = math.Mod(seconds, 60)
		if math.Round(seconds) == 60 {
			seconds = 0
			minutes++
		}
		if minutes == 60 {
			minutes = 0
			hours++
		}
		return fmt.Sprintf("%.0fh %.0fm %.0fs", hours, minutes, seconds)
	}
}
