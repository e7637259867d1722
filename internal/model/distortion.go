package model

// DistortionType names a cognitive distortion category.
type DistortionType string

const (
	Labeling        DistortionType = "labeling"
	MindReading     DistortionType = "mind_reading"
	AllOrNothing    DistortionType = "all_or_nothing"
	Personalization DistortionType = "personalization"
	Externalization DistortionType = "externalization"
)

// DistortionTypes lists every category in catalog order.
var DistortionTypes = []DistortionType{
	Labeling,
	MindReading,
	AllOrNothing,
	Personalization,
	Externalization,
}

var distortionLabels = map[DistortionType]string{
	Labeling:        "ラベリング",
	MindReading:     "読心",
	AllOrNothing:    "白黒思考",
	Personalization: "個人化",
	Externalization: "外部化",
}

// Valid reports whether t is one of the known categories.
func (t DistortionType) Valid() bool {
	_, ok := distortionLabels[t]
	return ok
}

// DistortionLabel returns the display label for t, or t itself when unknown.
func DistortionLabel(t DistortionType) string {
	if l, ok := distortionLabels[t]; ok {
		return l
	}
	return string(t)
}
