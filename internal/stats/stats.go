// Package stats aggregates journal records into summary reports. Every
// function is a pure scan over the records it is given.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/rcliao/anger-log/internal/model"
)

const (
	// Week is the rolling window for WeeklyRecords.
	Week = 7 * 24 * time.Hour

	// TopDistortions bounds the CommonDistortions ranking.
	TopDistortions = 5
)

// Compute builds the summary report over records as of now.
func Compute(records []model.Record, now time.Time) model.Stats {
	st := model.Stats{
		TotalRecords:      len(records),
		CommonDistortions: []model.DistortionCount{},
	}
	if len(records) == 0 {
		return st
	}

	weekAgo := now.Add(-Week)
	improvement := 0
	for _, r := range records {
		if r.CreatedAt.After(weekAgo) && !r.CreatedAt.After(now) {
			st.WeeklyRecords++
		}
		improvement += r.Improvement()
	}
	st.AvgMoodImprovement = float64(improvement) / float64(len(records))
	st.CommonDistortions = rankDistortions(records, TopDistortions)

	return st
}

// rankDistortions tallies findings by type, most frequent first. Ties keep
// the order in which each type was first seen.
func rankDistortions(records []model.Record, top int) []model.DistortionCount {
	index := map[model.DistortionType]int{}
	counts := []model.DistortionCount{}
	for _, r := range records {
		for _, f := range r.DetectedDistortions {
			i, ok := index[f.Type]
			if !ok {
				i = len(counts)
				index[f.Type] = i
				counts = append(counts, model.DistortionCount{Type: f.Type})
			}
			counts[i].Count++
		}
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	if len(counts) > top {
		counts = counts[:top]
	}
	return counts
}

// DailyMood averages moods per calendar date, oldest date first.
func DailyMood(records []model.Record) []model.DailyMood {
	type acc struct {
		n, before, after int
	}
	byDate := map[string]*acc{}
	for _, r := range records {
		a, ok := byDate[r.Date]
		if !ok {
			a = &acc{}
			byDate[r.Date] = a
		}
		a.n++
		a.before += r.MoodBefore
		a.after += r.MoodAfter
	}

	out := make([]model.DailyMood, 0, len(byDate))
	for date, a := range byDate {
		out = append(out, model.DailyMood{
			Date:           date,
			Records:        a.n,
			AvgMoodBefore:  roundDiv(a.before, a.n),
			AvgMoodAfter:   roundDiv(a.after, a.n),
			AvgImprovement: roundDiv(a.before-a.after, a.n),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// EmotionFrequency counts emotion types across records, most frequent
// first. Ties keep first-seen order.
func EmotionFrequency(records []model.Record) []model.EmotionFrequency {
	index := map[string]int{}
	out := []model.EmotionFrequency{}
	sums := []int{}
	for _, r := range records {
		for _, e := range r.Emotions {
			i, ok := index[e.Type]
			if !ok {
				i = len(out)
				index[e.Type] = i
				out = append(out, model.EmotionFrequency{Type: e.Type})
				sums = append(sums, 0)
			}
			out[i].Count++
			sums[i] += e.Intensity
		}
	}
	for i := range out {
		out[i].AvgIntensity = roundDiv(sums[i], out[i].Count)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// Trends bundles DailyMood and EmotionFrequency.
func Trends(records []model.Record) model.Trends {
	return model.Trends{
		Daily:    DailyMood(records),
		Emotions: EmotionFrequency(records),
	}
}

func roundDiv(sum, n int) int {
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(n)))
}
