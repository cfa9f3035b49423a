// Package aggregate define o contrato de agregação do Record Store: um pipeline
// de agrupamento/acumulação/ordenação sobre uma coleção, e o avaliador em
// memória usado pela store local.
package aggregate

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"
)

type Collection string

const (
	Agents  Collection = "agents"
	Leads   Collection = "leads"
	Buyers  Collection = "buyers"
	Sellers Collection = "sellers"
)

// KeyField é o nome usado em SortBy para ordenar pela chave do grupo.
const KeyField = "_id"

type Op string

const (
	Count Op = "count"
	Sum   Op = "sum"
	Avg   Op = "avg"
)

type Accumulator struct {
	Name  string
	Op    Op
	Field string // ignorado em Count
}

type Grouping int

const (
	ByValue Grouping = iota
	ByMonth          // chave YYYY-MM (UTC) do campo de data
	ByBucket         // chave = limite inferior do intervalo
)

// Buckets: um valor v cai em [Boundaries[i], Boundaries[i+1]).
type Buckets struct {
	Boundaries []float64
	Overflow   string // v >= último limite
	Missing    string // ausente, não numérico ou abaixo do primeiro limite
}

type Pipeline struct {
	GroupBy      string // vazio = sem agrupamento, uma linha por documento
	Grouping     Grouping
	Buckets      Buckets
	Accumulators []Accumulator

	// SortBy: KeyField, nome de acumulador ou, sem agrupamento, um campo do documento.
	SortBy     string
	Descending bool
	Limit      int

	// Project lista os campos copiados para Row.Fields (só sem agrupamento).
	Project []string
}

type Row struct {
	Key    any // string, float64 (bucket), rótulo de bucket ou nil
	Values map[string]float64
	Fields map[string]any
}

// Value devolve o acumulador; ok=false quando não houve valor numérico.
func (r Row) Value(name string) (float64, bool) {
	v, ok := r.Values[name]
	return v, ok
}

func (r Row) Int(name string) int {
	return int(r.Values[name])
}

// KeyString devolve a chave como texto, ou fallback quando ausente.
func (r Row) KeyString(fallback string) string {
	switch k := r.Key.(type) {
	case nil:
		return fallback
	case string:
		if k == "" {
			return fallback
		}
		return k
	case float64:
		return strconv.FormatFloat(k, 'f', -1, 64)
	}
	return fallback
}

type Aggregator interface {
	Aggregate(ctx context.Context, coll Collection, p Pipeline) ([]Row, error)
}

// ToFloat faz a coerção usada por Sum/Avg/Buckets. Texto é aceito se for um
// número finito; qualquer outra coisa não coage.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n) && !math.IsInf(n, 0)
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	case interface{ Float64() (float64, bool) }:
		return n.Float64()
	}
	return 0, false
}

// MonthKey formata o mês de criação como YYYY-MM.
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// BucketKey devolve o limite inferior (float64) ou o rótulo Overflow/Missing.
func (b Buckets) BucketKey(v any) any {
	f, ok := ToFloat(v)
	if !ok || len(b.Boundaries) == 0 || f < b.Boundaries[0] {
		return b.Missing
	}
	last := b.Boundaries[len(b.Boundaries)-1]
	if f >= last {
		return b.Overflow
	}
	for i := len(b.Boundaries) - 2; i >= 0; i-- {
		if f >= b.Boundaries[i] {
			return b.Boundaries[i]
		}
	}
	return b.Missing
}
