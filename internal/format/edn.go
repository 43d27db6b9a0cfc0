package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// WriteEDN writes an EDN rendering of v.
//
// Values go through JSON first so struct tags decide field names; JSON keys become
// kebab-case keywords (book_title -> :book-title). Only the subset the CLI emits is
// supported: maps, vectors, strings, numbers, booleans, nil.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var x any
	if err := dec.Decode(&x); err != nil {
		return err
	}

	var buf bytes.Buffer
	e := ednWriter{buf: &buf, pretty: pretty}
	e.value(x, 0)
	buf.WriteByte('\n')
	_, err = w.Write(buf.Bytes())
	return err
}

type ednWriter struct {
	buf    *bytes.Buffer
	pretty bool
}

func (e ednWriter) value(v any, depth int) {
	switch t := v.(type) {
	case nil:
		e.buf.WriteString("nil")
	case bool:
		e.buf.WriteString(strconv.FormatBool(t))
	case string:
		e.buf.WriteString(strconv.Quote(t))
	case json.Number:
		e.buf.WriteString(t.String())
	case []any:
		e.seq('[', ']', len(t), depth, func(i int) { e.value(t[i], depth+1) })
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		e.seq('{', '}', len(keys), depth, func(i int) {
			e.buf.WriteString(keyword(keys[i]))
			e.buf.WriteByte(' ')
			e.value(t[keys[i]], depth+1)
		})
	default:
		e.buf.WriteString(strconv.Quote(fmt.Sprintf("%v", v)))
	}
}

func (e ednWriter) seq(open, close byte, n, depth int, item func(i int)) {
	e.buf.WriteByte(open)
	for i := 0; i < n; i++ {
		switch {
		case e.pretty:
			e.buf.WriteByte('\n')
			e.buf.WriteString(strings.Repeat("  ", depth+1))
		case i > 0:
			e.buf.WriteByte(' ')
		}
		item(i)
	}
	if e.pretty && n > 0 {
		e.buf.WriteByte('\n')
		e.buf.WriteString(strings.Repeat("  ", depth))
	}
	e.buf.WriteByte(close)
}

func keyword(k string) string {
	k = strings.TrimSpace(k)
	k = strings.TrimLeft(k, "_")
	k = strings.NewReplacer("_", "-", " ", "-").Replace(k)
	if k == "" {
		k = "-"
	}
	return ":" + k
}
