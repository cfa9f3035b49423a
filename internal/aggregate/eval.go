package aggregate

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Document é qualquer registro que expõe campos por nome.
type Document interface {
	Field(name string) any
}

type group struct {
	key   any
	count int
	sums  map[string]float64
	seen  map[string]int
}

// Run avalia o pipeline sobre docs, na ordem natural recebida. Empates na
// ordenação preservam essa ordem (primeira aparição do grupo).
func Run(docs []Document, p Pipeline) []Row {
	if p.GroupBy == "" {
		return runUngrouped(docs, p)
	}

	index := make(map[any]*group)
	var order []*group

	for _, d := range docs {
		k := p.keyFor(d.Field(p.GroupBy))
		g, ok := index[k]
		if !ok {
			g = &group{key: k, sums: map[string]float64{}, seen: map[string]int{}}
			index[k] = g
			order = append(order, g)
		}
		g.count++

		for _, acc := range p.Accumulators {
			if acc.Op == Count {
				continue
			}
			// valor não coercível: a linha some da soma/média, mas conta no Count
			if f, ok := ToFloat(d.Field(acc.Field)); ok {
				g.sums[acc.Name] += f
				g.seen[acc.Name]++
			}
		}
	}

	rows := make([]Row, 0, len(order))
	for _, g := range order {
		values := make(map[string]float64, len(p.Accumulators))
		for _, acc := range p.Accumulators {
			switch acc.Op {
			case Count:
				values[acc.Name] = float64(g.count)
			case Sum:
				if g.seen[acc.Name] > 0 {
					values[acc.Name] = g.sums[acc.Name]
				}
			case Avg:
				if n := g.seen[acc.Name]; n > 0 {
					values[acc.Name] = g.sums[acc.Name] / float64(n)
				}
			}
		}
		rows = append(rows, Row{Key: g.key, Values: values})
	}

	return Finish(rows, p)
}

func runUngrouped(docs []Document, p Pipeline) []Row {
	rows := make([]Row, 0, len(docs))
	for _, d := range docs {
		row := Row{Key: d.Field(KeyField), Values: map[string]float64{}}
		if len(p.Project) > 0 {
			row.Fields = make(map[string]any, len(p.Project))
			for _, f := range p.Project {
				row.Fields[f] = d.Field(f)
			}
		}
		if p.SortBy != "" && p.SortBy != KeyField {
			if f, ok := ToFloat(d.Field(p.SortBy)); ok {
				row.Values[p.SortBy] = f
			}
		}
		rows = append(rows, row)
	}
	return Finish(rows, p)
}

func (p Pipeline) keyFor(v any) any {
	switch p.Grouping {
	case ByMonth:
		t, ok := v.(time.Time)
		if !ok || t.IsZero() {
			return nil
		}
		return MonthKey(t)
	case ByBucket:
		return p.Buckets.BucketKey(v)
	}

	switch k := v.(type) {
	case nil:
		return nil
	case string:
		if k == "" {
			return nil
		}
		return k
	case float64:
		return k
	case time.Time:
		return k.UTC().Format(time.RFC3339)
	}
	return fmt.Sprint(v)
}

// Finish aplica a ordenação estável e o limite. As duas stores passam por aqui
// para que empates sejam resolvidos do mesmo jeito.
func Finish(rows []Row, p Pipeline) []Row {
	if p.SortBy != "" {
		sort.SliceStable(rows, func(i, j int) bool {
			return less(rows[i], rows[j], p)
		})
	}
	if p.Limit > 0 && len(rows) > p.Limit {
		rows = rows[:p.Limit]
	}
	return rows
}

func less(a, b Row, p Pipeline) bool {
	if p.SortBy == KeyField {
		c := compareKeys(a.Key, b.Key)
		if p.Descending {
			return c > 0
		}
		return c < 0
	}

	av, aok := a.Value(p.SortBy)
	bv, bok := b.Value(p.SortBy)
	switch {
	case aok && !bok:
		return true
	case !aok:
		return false
	}
	if p.Descending {
		return av > bv
	}
	return av < bv
}

// compareKeys: números < textos < ausente.
func compareKeys(a, b any) int {
	ra, rb := keyRank(a), keyRank(b)
	if ra != rb {
		return ra - rb
	}
	switch x := a.(type) {
	case float64:
		y := b.(float64)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case string:
		return strings.Compare(x, b.(string))
	}
	return 0
}

func keyRank(k any) int {
	switch k.(type) {
	case float64:
		return 0
	case string:
		return 1
	}
	return 2
}
