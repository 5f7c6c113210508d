package criteria

import "fmt"

// Criterion is a single achievement-standard record as stored in the data
// files. Field names keep the Korean keys used by the curriculum files.
type Criterion struct {
	Domain      string `json:"영역"`
	ID          string `json:"id"`
	Text        string `json:"내용"`
	Explanation string `json:"해설,omitempty"`
}

// Sourced is a criterion tagged with the curriculum + grade-band file it came
// from. The same criterion id appearing in two grade-band files yields two
// distinct Sourced records.
type Sourced struct {
	Criterion
	Curriculum string
	GradeBand  string
}

// Source returns the source label, e.g. "[기본교육과정] 중학교 1-3학년군".
func (s Sourced) Source() string {
	return fmt.Sprintf("[%s] %s", s.Curriculum, s.GradeBand)
}

// Key identifies a criterion within a loaded set: source label + id.
func (s Sourced) Key() string {
	return fmt.Sprintf("%s %s", s.Source(), s.ID)
}

// Curriculum and grade-band vocabulary. Criteria files exist only for valid
// (curriculum, subject) pairs; which grade bands exist is discovered on disk.
var (
	Curriculums = []string{"기본교육과정", "공통교육과정"}

	CurriculumShortNames = map[string]string{
		"기본교육과정": "기본",
		"공통교육과정": "공통",
	}

	SubjectsByCurriculum = map[string][]string{
		"기본교육과정": {"국어", "수학", "생활영어", "진로와직업", "체육", "정보통신활용", "보건"},
		"공통교육과정": {"국어", "수학", "실과", "정보", "체육", "기술가정"},
	}

	GradeBands = []string{
		"초등학교 1-2학년군",
		"초등학교 3-4학년군",
		"초등학교 5-6학년군",
		"중학교 1-3학년군",
	}
)

// CurriculumOffers reports whether the curriculum includes the subject.
func CurriculumOffers(curriculum, subject string) bool {
	for _, s := range SubjectsByCurriculum[curriculum] {
		if s == subject {
			return true
		}
	}
	return false
}
