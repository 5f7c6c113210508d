// Package criteria loads read-only achievement-criteria records from
// structured JSON files, one file per (curriculum, subject, grade band).
package criteria

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/xeipuuv/gojsonschema"
)

// fileSchema describes a valid criteria file: a non-empty array of records
// with 영역/id/내용 required and 해설 optional.
const fileSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["영역", "id", "내용"],
    "properties": {
      "영역": {"type": "string", "minLength": 1},
      "id": {"type": "string", "minLength": 1},
      "내용": {"type": "string", "minLength": 1},
      "해설": {"type": "string"}
    }
  }
}`

// Store reads criteria files from a root data directory laid out as
// <root>/<curriculum>/<subject>_<gradeBand>.json.
type Store struct {
	rootDir string
	schema  *gojsonschema.Schema
}

// NewStore creates a store rooted at dir. The directory must exist.
func NewStore(dir string) (*Store, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("criteria data dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("criteria data dir %s is not a directory", dir)
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(fileSchema))
	if err != nil {
		return nil, fmt.Errorf("compile criteria schema: %w", err)
	}

	return &Store{rootDir: dir, schema: schema}, nil
}

// Set is the merged result of loading every matching criteria file for a
// selection. Missing files surface as warnings, malformed files as file
// errors; neither aborts the load.
type Set struct {
	Records    []Sourced
	Warnings   []string
	FileErrors []string
}

// Load merges all criteria files matching the selection. A file is consulted
// only when the curriculum actually offers the subject.
func (s *Store) Load(curriculums []string, subject string, gradeBands []string) *Set {
	set := &Set{}

	for _, cur := range curriculums {
		if !CurriculumOffers(cur, subject) {
			continue
		}
		for _, band := range gradeBands {
			path := s.filePath(cur, subject, band)
			data, err := os.ReadFile(path)
			if err != nil {
				if os.IsNotExist(err) {
					set.Warnings = append(set.Warnings,
						fmt.Sprintf("성취기준 파일이 존재하지 않음: %s", path))
					continue
				}
				set.FileErrors = append(set.FileErrors,
					fmt.Sprintf("성취기준 파일을 읽을 수 없음: %s: %v", path, err))
				continue
			}

			records, err := s.parseFile(data)
			if err != nil {
				slog.Warn("skipping malformed criteria file", "path", path, "error", err)
				set.FileErrors = append(set.FileErrors,
					fmt.Sprintf("성취기준 파일 형식 오류: %s: %v", path, err))
				continue
			}

			for _, rec := range records {
				set.Records = append(set.Records, Sourced{
					Criterion:  rec,
					Curriculum: cur,
					GradeBand:  band,
				})
			}
		}
	}

	return set
}

// AvailableGradeBands returns, in canonical order, the grade bands for which
// at least one selected curriculum has a criteria file for the subject.
func (s *Store) AvailableGradeBands(curriculums []string, subject string) []string {
	var bands []string
	for _, band := range GradeBands {
		for _, cur := range curriculums {
			if !CurriculumOffers(cur, subject) {
				continue
			}
			if _, err := os.Stat(s.filePath(cur, subject, band)); err == nil {
				bands = append(bands, band)
				break
			}
		}
	}
	return bands
}

func (s *Store) filePath(curriculum, subject, gradeBand string) string {
	return filepath.Join(s.rootDir, curriculum, fmt.Sprintf("%s_%s.json", subject, gradeBand))
}

func (s *Store) parseFile(data []byte) ([]Criterion, error) {
	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("not valid JSON: %w", err)
	}
	if !result.Valid() {
		return nil, fmt.Errorf("schema violation: %s", result.Errors()[0])
	}

	var records []Criterion
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ByDomain groups records by their domain, keeping file order within each.
func (set *Set) ByDomain() map[string][]Sourced {
	out := make(map[string][]Sourced)
	for _, rec := range set.Records {
		out[rec.Domain] = append(out[rec.Domain], rec)
	}
	return out
}

// Domains returns the sorted list of domains present in the set.
func (set *Set) Domains() []string {
	seen := make(map[string]bool)
	var domains []string
	for _, rec := range set.Records {
		if !seen[rec.Domain] {
			seen[rec.Domain] = true
			domains = append(domains, rec.Domain)
		}
	}
	sort.Strings(domains)
	return domains
}
