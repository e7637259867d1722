package model

// Stats is the summary report over all records. It is never persisted.
type Stats struct {
	TotalRecords       int               `json:"totalRecords"`
	WeeklyRecords      int               `json:"weeklyRecords"`
	AvgMoodImprovement float64           `json:"avgMoodImprovement"`
	CommonDistortions  []DistortionCount `json:"commonDistortions"`
}

// DistortionCount tallies findings of one category.
type DistortionCount struct {
	Type  DistortionType `json:"type"`
	Count int            `json:"count"`
}

// DailyMood aggregates the records of one calendar date.
type DailyMood struct {
	Date           string `json:"date"`
	Records        int    `json:"records"`
	AvgMoodBefore  int    `json:"avgMoodBefore"`
	AvgMoodAfter   int    `json:"avgMoodAfter"`
	AvgImprovement int    `json:"avgImprovement"`
}

// EmotionFrequency counts one emotion type across records.
type EmotionFrequency struct {
	Type         string `json:"type"`
	Count        int    `json:"count"`
	AvgIntensity int    `json:"avgIntensity"`
}

// Trends groups the time-series and emotion breakdowns.
type Trends struct {
	Daily    []DailyMood        `json:"daily"`
	Emotions []EmotionFrequency `json:"emotions"`
}
