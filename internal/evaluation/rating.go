package evaluation

// Unrated is reported for a focus item whose rating was never set.
const Unrated = "평가되지 않음"

// Scale is an ordered set of rating labels. Position is meaning: label i maps
// to score i+1, from fully independent (1) to fully assisted (len).
type Scale struct {
	Labels []string
}

// ScaleStandard is the canonical five-level assistance scale.
var ScaleStandard = Scale{Labels: []string{
	"도움 없이 스스로 과제를 완수함.",
	"시범을 보여주면 따라서 수행 가능함.",
	"한두 번의 언어적, 신체적 도움을 받으면 과제를 완수함.",
	"과제의 대부분 단계를 도와주어야 완수함.",
	"교사의 완전한 도움을 통해서만 과제 수행이 가능함.",
}}

// ScaleStrict is the six-level variant used for the end-of-semester
// evaluation, adding a partial-assistance step.
var ScaleStrict = Scale{Labels: []string{
	"도움 없이 스스로 과제를 완수함.",
	"시범을 보여주면 따라서 수행 가능함.",
	"한두 번의 언어적, 신체적 도움을 받으면 과제를 완수함.",
	"과제의 일부 단계를 도와주면 완수함.",
	"과제의 대부분 단계를 도와주어야 완수함.",
	"교사의 완전한 도움을 통해서만 과제 수행이 가능함.",
}}

// Score returns the ordinal score for a label, or false for an unknown label
// (including Unrated).
func (s Scale) Score(label string) (int, bool) {
	for i, l := range s.Labels {
		if l == label {
			return i + 1, true
		}
	}
	return 0, false
}

// Label returns the label for a score in [1, len].
func (s Scale) Label(score int) (string, bool) {
	if score < 1 || score > len(s.Labels) {
		return "", false
	}
	return s.Labels[score-1], true
}
