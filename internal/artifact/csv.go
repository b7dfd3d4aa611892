// Package artifact writes the per-stage CSV outputs of a campaign run.
// Headers come from the record schema (json tag order), list and map fields
// are serialized as JSON strings, and millisecond timestamp columns are
// rewritten as RFC 3339 UTC. Each write returns the filesystem path and the
// web-relative path the file is served under.
package artifact

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/podscout/internal/model"
)

const (
	timestampLayout = "20060102_150405"
	webPrefix       = "/static"
)

// Artifact describes one written CSV file.
type Artifact struct {
	// Path is the filesystem path of the file.
	Path string `json:"path"`

	// WebPath is the /static/... path the file is served under.
	WebPath string `json:"web_path"`

	// Rows is the number of data rows written (header excluded).
	Rows int `json:"rows"`
}

// Writer writes stage artifacts under a data directory.
type Writer struct {
	dataDir string
	now     func() time.Time
}

// NewWriter creates a Writer rooted at dataDir.
func NewWriter(dataDir string) *Writer {
	return &Writer{dataDir: dataDir, now: time.Now}
}

// WriteSearchResults writes the Search stage leads to
// <dataDir>/campaigns/<id>/<searchType>/search_results_<id>_<ts>.csv.
func (w *Writer) WriteSearchResults(campaignID string, searchType model.SearchType, leads []model.UnifiedLead) (*Artifact, error) {
	id := model.SanitizeCampaignID(campaignID)
	name := "search_results_" + id + "_" + w.now().UTC().Format(timestampLayout) + ".csv"
	rel := filepath.Join("campaigns", id, string(searchType), name)

	rows := make([]reflect.Value, len(leads))
	for i := range leads {
		rows[i] = reflect.ValueOf(leads[i])
	}
	return w.write(rel, reflect.TypeOf(model.UnifiedLead{}), rows)
}

// WriteEnrichedProfiles writes the Enrichment stage output to
// <dataDir>/campaigns/<id>/enrichment_results/enriched_profiles_<ts>.csv.
// Nil profiles (per-record enrichment failures) are skipped.
func (w *Writer) WriteEnrichedProfiles(campaignID string, profiles []*model.EnrichedProfile) (*Artifact, error) {
	id := model.SanitizeCampaignID(campaignID)
	name := "enriched_profiles_" + w.now().UTC().Format(timestampLayout) + ".csv"
	rel := filepath.Join("campaigns", id, "enrichment_results", name)

	rows := make([]reflect.Value, 0, len(profiles))
	for _, p := range profiles {
		if p == nil {
			continue
		}
		rows = append(rows, reflect.ValueOf(*p))
	}
	return w.write(rel, reflect.TypeOf(model.EnrichedProfile{}), rows)
}

// WriteVettingResults writes the Vetting stage output to
// <dataDir>/campaigns/<id>/vetting_results/vetting_output_<id>_<ts>.csv.
func (w *Writer) WriteVettingResults(campaignID string, results []model.VettingResult) (*Artifact, error) {
	id := model.SanitizeCampaignID(campaignID)
	name := "vetting_output_" + id + "_" + w.now().UTC().Format(timestampLayout) + ".csv"
	rel := filepath.Join("campaigns", id, "vetting_results", name)

	rows := make([]reflect.Value, len(results))
	for i := range results {
		rows[i] = reflect.ValueOf(results[i])
	}
	return w.write(rel, reflect.TypeOf(model.VettingResult{}), rows)
}

func (w *Writer) write(rel string, recordType reflect.Type, rows []reflect.Value) (*Artifact, error) {
	path := filepath.Join(w.dataDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, eris.Wrap(err, "artifact: create output dir")
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, eris.Wrap(err, "artifact: create file")
	}
	defer f.Close()

	cols := columnsOf(recordType)
	cw := csv.NewWriter(f)

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.name
	}
	if err := cw.Write(header); err != nil {
		return nil, eris.Wrap(err, "artifact: write header")
	}

	for _, row := range rows {
		record := make([]string, len(cols))
		for i, c := range cols {
			cell, cellErr := renderCell(row.FieldByIndex(c.index), c)
			if cellErr != nil {
				return nil, eris.Wrap(cellErr, "artifact: render "+c.name)
			}
			record[i] = cell
		}
		if err := cw.Write(record); err != nil {
			return nil, eris.Wrap(err, "artifact: write row")
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, eris.Wrap(err, "artifact: flush")
	}
	if err := f.Close(); err != nil {
		return nil, eris.Wrap(err, "artifact: close file")
	}

	zap.L().Info("artifact written",
		zap.String("path", path),
		zap.Int("rows", len(rows)),
	)

	return &Artifact{
		Path:    path,
		WebPath: webPrefix + "/" + filepath.ToSlash(rel),
		Rows:    len(rows),
	}, nil
}

// column is one CSV column resolved from a struct field. index is the
// field's path through embedded structs.
type column struct {
	name        string
	index       []int
	millisecond bool
}

// columnsOf flattens a record type into its CSV columns in declaration
// order. Embedded structs contribute their fields in place; fields without
// a json name or tagged "-" are skipped.
func columnsOf(t reflect.Type) []column {
	var cols []column
	var walk func(t reflect.Type, prefix []int)
	walk = func(t reflect.Type, prefix []int) {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			index := append(append([]int{}, prefix...), i)

			if f.Anonymous && f.Type.Kind() == reflect.Struct {
				walk(f.Type, index)
				continue
			}

			name := jsonName(f)
			if name == "" {
				continue
			}
			cols = append(cols, column{
				name:        name,
				index:       index,
				millisecond: strings.HasSuffix(name, "_ms"),
			})
		}
	}
	walk(t, nil)
	return cols
}

func jsonName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	if i := strings.Index(tag, ","); i >= 0 {
		tag = tag[:i]
	}
	if tag == "" {
		return f.Name
	}
	return tag
}

// renderCell serializes one field value. Nil pointers become empty cells;
// millisecond columns are rewritten as RFC 3339 UTC; composite values are
// JSON-encoded.
func renderCell(v reflect.Value, c column) (string, error) {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return "", nil
		}
		v = v.Elem()
	}

	if t, ok := v.Interface().(time.Time); ok {
		return t.UTC().Format(time.RFC3339), nil
	}

	switch v.Kind() {
	case reflect.String:
		return v.String(), nil
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if c.millisecond {
			return model.MsToTime(v.Int()).Format(time.RFC3339), nil
		}
		return strconv.FormatInt(v.Int(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64), nil
	case reflect.Slice, reflect.Map:
		if v.IsNil() {
			return "", nil
		}
		data, err := json.Marshal(v.Interface())
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		data, err := json.Marshal(v.Interface())
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}
