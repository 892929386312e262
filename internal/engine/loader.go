package engine

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"sort"
	"strings"
	"time"
	"unsafe"

	"prenoms/internal/models"
)

const (
	// RareNamesMarker is the source's bucket for names below the disclosure threshold.
	RareNamesMarker = "_PRENOMS_RARES"
	// UnknownDepartment is the source's code for births with no resolvable department.
	UnknownDepartment = "XX"

	// maxLineSize bounds one row. Longer rows are skipped as unparsable.
	maxLineSize = 1 << 20
)

type LoadOptions struct {
	YearMin int
	YearMax int
}

func DefaultLoadOptions() LoadOptions {
	return LoadOptions{YearMin: 1900, YearMax: 2020}
}

// column aliases: INSEE headers first, then the renamed english ones.
var requiredColumns = map[string][]string{
	"sex":   {"sexe", "sex"},
	"name":  {"preusuel", "name"},
	"year":  {"annais", "year"},
	"dept":  {"dpt", "dept", "department"},
	"count": {"nombre", "count"},
}

// --- 1. FAST PARSERS ---

func unsafeToString(b []byte) string {
	return *(*string)(unsafe.Pointer(&b))
}

// parseInt parses "123" -> 123. Anything that is not a plain non-negative
// decimal (e.g. "XXXX") is rejected.
func parseInt(b []byte) (int64, bool) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || len(b) > 18 {
		return 0, false
	}
	var n int64
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int64(c-'0')
	}
	return n, true
}

// --- 2. HEADER ---

type columnIndex struct {
	sex, name, year, dept, count int
	sep                          byte
	width                        int
}

func parseHeader(line []byte) (columnIndex, error) {
	line = bytes.TrimPrefix(line, []byte("\xef\xbb\xbf"))
	sep := byte(';')
	if bytes.IndexByte(line, ';') == -1 && bytes.IndexByte(line, ',') != -1 {
		sep = ','
	}

	pos := make(map[string]int)
	fields := bytes.Split(line, []byte{sep})
	for i, f := range fields {
		pos[strings.ToLower(strings.TrimSpace(string(f)))] = i
	}

	find := func(key string) int {
		for _, alias := range requiredColumns[key] {
			if i, ok := pos[alias]; ok {
				return i
			}
		}
		return -1
	}

	idx := columnIndex{
		sex:   find("sex"),
		name:  find("name"),
		year:  find("year"),
		dept:  find("dept"),
		count: find("count"),
		sep:   sep,
		width: len(fields),
	}

	var missing []string
	for key, i := range map[string]int{"sex": idx.sex, "name": idx.name, "year": idx.year, "dept": idx.dept, "count": idx.count} {
		if i < 0 {
			missing = append(missing, requiredColumns[key][0])
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return idx, fmt.Errorf("%w: missing required columns: %s", models.ErrData, strings.Join(missing, ", "))
	}
	return idx, nil
}

// --- 3. MAIN LOADER ---

// LoadFile opens path and loads it. The file is closed on every exit path.
func LoadFile(path string, opts LoadOptions) (*RecordStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrData, err)
	}
	defer f.Close()

	return Load(f, opts)
}

// Load reads the births table from r. A missing header or required column
// aborts with models.ErrData; rows that fail coercion are dropped and counted.
func Load(r io.Reader, opts LoadOptions) (*RecordStore, error) {
	start := time.Now()

	br := bufio.NewReaderSize(r, maxLineSize)

	header, long, err := readLine(br)
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty input", models.ErrData)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", models.ErrData, err)
	}
	if long {
		return nil, fmt.Errorf("%w: header longer than %d bytes", models.ErrData, maxLineSize)
	}
	cols, err := parseHeader(header)
	if err != nil {
		return nil, err
	}

	store := &RecordStore{}
	nameMap := make(map[string]int32)
	deptMap := make(map[string]int32)

	intern := func(field []byte, m map[string]int32, dict *[]string) int32 {
		if id, ok := m[unsafeToString(field)]; ok {
			return id
		}
		id := int32(len(*dict))
		str := string(field) // Allocate string for dict
		*dict = append(*dict, str)
		m[str] = id
		return id
	}

	fields := make([][]byte, cols.width)

	// HOT LOOP
	for {
		line, long, err := readLine(br)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrData, err)
		}
		if long {
			store.Stats.Rows++
			store.Stats.Unparsable++
			continue
		}
		if len(line) == 0 {
			continue
		}
		store.Stats.Rows++

		n := splitInto(line, cols.sep, fields)
		if n < cols.width {
			store.Stats.Unparsable++
			continue
		}

		name := bytes.TrimSpace(fields[cols.name])
		if len(name) == 0 {
			store.Stats.Unparsable++
			continue
		}
		if unsafeToString(name) == RareNamesMarker {
			store.Stats.RareNames++
			continue
		}

		dept := bytes.TrimSpace(fields[cols.dept])
		if len(dept) == 0 || unsafeToString(dept) == UnknownDepartment {
			store.Stats.UnknownDept++
			continue
		}

		year, okYear := parseInt(fields[cols.year])
		count, okCount := parseInt(fields[cols.count])
		sex, okSex := parseInt(fields[cols.sex])
		if !okYear || year > math.MaxInt32 || !okCount || !okSex || (sex != int64(models.SexMale) && sex != int64(models.SexFemale)) {
			store.Stats.Unparsable++
			continue
		}

		if (opts.YearMin != 0 && int(year) < opts.YearMin) || (opts.YearMax != 0 && int(year) > opts.YearMax) {
			store.Stats.OutOfRange++
			continue
		}

		store.Sexes = append(store.Sexes, models.Sex(sex))
		store.Years = append(store.Years, int32(year))
		store.Counts = append(store.Counts, count)
		store.NameIDs = append(store.NameIDs, intern(name, nameMap, &store.NameDict))
		store.DeptIDs = append(store.DeptIDs, intern(dept, deptMap, &store.DeptDict))
	}

	slog.Info("births table loaded",
		"rows", store.Len(),
		"dropped", store.Stats.Dropped(),
		"unparsable", store.Stats.Unparsable,
		"rare_names", store.Stats.RareNames,
		"unknown_department", store.Stats.UnknownDept,
		"out_of_range", store.Stats.OutOfRange,
		"elapsed", time.Since(start),
	)
	return store, nil
}

// readLine returns the next line without its terminator. The returned slice
// is only valid until the next call. A line that does not fit the reader's
// buffer is consumed up to its newline and reported as long instead.
func readLine(br *bufio.Reader) (line []byte, long bool, err error) {
	line, err = br.ReadSlice('\n')
	for err == bufio.ErrBufferFull {
		long = true
		_, err = br.ReadSlice('\n')
	}
	if err == io.EOF && (long || len(line) > 0) {
		err = nil
	}
	if err != nil {
		return nil, false, err
	}
	if long {
		return nil, true, nil
	}
	return bytes.TrimRight(line, "\r\n"), false, nil
}

// splitInto cuts line on sep into dst without allocating and returns the
// number of fields found (capped at len(dst)).
func splitInto(line []byte, sep byte, dst [][]byte) int {
	rest := line
	n := 0
	for n < len(dst) {
		field, tail, found := bytes.Cut(rest, []byte{sep})
		dst[n] = field
		n++
		if !found {
			break
		}
		rest = tail
	}
	return n
}
