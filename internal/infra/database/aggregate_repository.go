package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/aggregate"
)

type colKind int

const (
	kindText colKind = iota
	kindNumeric
	kindID
	kindTime
)

type column struct {
	expr string
	kind colKind
}

// columns mapeia o nome do campo (igual ao JSON) para a coluna de cada tabela.
var columns = map[aggregate.Collection]map[string]column{
	aggregate.Agents: {
		"_id":       {"id", kindID},
		"name":      {"name", kindText},
		"email":     {"email", kindText},
		"role":      {"role", kindText},
		"createdAt": {"created_at", kindTime},
		"updatedAt": {"updated_at", kindTime},
	},
	aggregate.Leads: {
		"_id":           {"id", kindID},
		"name":          {"name", kindText},
		"email":         {"email", kindText},
		"phone":         {"phone", kindText},
		"source":        {"source", kindText},
		"status":        {"status", kindText},
		"leadType":      {"lead_type", kindText},
		"priority":      {"priority", kindText},
		"timeline":      {"timeline", kindText},
		"assignedAgent": {"assigned_agent", kindID},
		"createdAt":     {"created_at", kindTime},
		"updatedAt":     {"updated_at", kindTime},
	},
	aggregate.Buyers: {
		"_id":                  {"id", kindID},
		"leadId":               {"lead_id", kindID},
		"interestedLocation":   {"interested_location", kindText},
		"interestedSquareFeet": {"interested_square_feet", kindNumeric},
		"assignedAgent":        {"assigned_agent", kindID},
		"createdAt":            {"created_at", kindTime},
		"updatedAt":            {"updated_at", kindTime},
	},
	aggregate.Sellers: {
		"_id":                {"id", kindID},
		"leadId":             {"lead_id", kindID},
		"propertyLocation":   {"property_location", kindText},
		"propertySquareFeet": {"property_square_feet", kindNumeric},
		"propertyValue":      {"property_value", kindNumeric},
		"propertyType":       {"property_type", kindText},
		"bedrooms":           {"bedrooms", kindNumeric},
		"bathrooms":          {"bathrooms", kindNumeric},
		"listingStatus":      {"listing_status", kindText},
		"assignedAgent":      {"assigned_agent", kindID},
		"createdAt":          {"created_at", kindTime},
		"updatedAt":          {"updated_at", kindTime},
	},
}

// numericPattern aceita o texto decimal de strconv.ParseFloat. O expoente fica
// em três dígitos para o cast em numeric nunca falhar.
const numericPattern = `^[-+]?([0-9]+(\.[0-9]*)?|\.[0-9]+)([eE][-+]?[0-9]{1,3})?$`

// Limites de double precision: acima de maxFloat não coage, abaixo de
// minFloat vira 0, como no ParseFloat.
const (
	maxFloat = "1.7976931348623157e308"
	minFloat = "2.2250738585072014e-308"
)

// numExpr coage texto para double precision; NULL quando não é número ou não cabe.
func numExpr(col string) string {
	trimmed := fmt.Sprintf("btrim(%s, E' \\t\\n\\r')", col)
	n := trimmed + "::numeric"
	return fmt.Sprintf(
		"(CASE WHEN %s ~ '%s' THEN CASE WHEN abs(%s) > %s THEN NULL WHEN abs(%s) < %s THEN 0 ELSE %s::double precision END END)",
		trimmed, numericPattern, n, maxFloat, n, minFloat, n,
	)
}

type Aggregator struct {
	DB *sql.DB
}

func NewAggregator(db *sql.DB) *Aggregator {
	return &Aggregator{DB: db}
}

// query é o SQL pronto mais o que precisa para ler as linhas de volta.
type query struct {
	sql     string
	args    []any
	grouped bool
	project []column
}

func lookup(coll aggregate.Collection, field string) (column, error) {
	cols, ok := columns[coll]
	if !ok {
		return column{}, fmt.Errorf("unknown collection %q", coll)
	}
	c, ok := cols[field]
	if !ok {
		return column{}, fmt.Errorf("unknown field %q in %s", field, coll)
	}
	return c, nil
}

func buildQuery(coll aggregate.Collection, p aggregate.Pipeline) (*query, error) {
	if p.GroupBy == "" {
		return buildUngrouped(coll, p)
	}

	key, err := lookup(coll, p.GroupBy)
	if err != nil {
		return nil, err
	}

	q := &query{grouped: true}
	var keyExpr string
	switch p.Grouping {
	case aggregate.ByMonth:
		if key.kind != kindTime {
			return nil, fmt.Errorf("field %q is not a date", p.GroupBy)
		}
		keyExpr = fmt.Sprintf("to_char(%s AT TIME ZONE 'UTC', 'YYYY-MM')", key.expr)
	case aggregate.ByBucket:
		keyExpr = bucketExpr(key, p.Buckets, &q.args)
	default:
		keyExpr = valueExpr(key)
	}

	selects := []string{keyExpr + " AS k"}
	for _, acc := range p.Accumulators {
		switch acc.Op {
		case aggregate.Count:
			selects = append(selects, "COUNT(*)")
		case aggregate.Sum, aggregate.Avg:
			c, err := lookup(coll, acc.Field)
			if err != nil {
				return nil, err
			}
			if c.kind != kindText && c.kind != kindNumeric {
				return nil, fmt.Errorf("field %q cannot be summed", acc.Field)
			}
			fn := "SUM"
			if acc.Op == aggregate.Avg {
				fn = "AVG"
			}
			selects = append(selects, fmt.Sprintf("%s(%s)", fn, numExpr(c.expr)))
		default:
			return nil, fmt.Errorf("unknown accumulator op %q", acc.Op)
		}
	}

	// ordem de primeira aparição; sort e limit ficam para aggregate.Finish
	q.sql = fmt.Sprintf("SELECT %s FROM %s GROUP BY 1 ORDER BY MIN(created_at), MIN(id::text)",
		strings.Join(selects, ", "), coll)
	return q, nil
}

func valueExpr(c column) string {
	switch c.kind {
	case kindID:
		return c.expr + "::text"
	case kindTime:
		return fmt.Sprintf(`to_char(%s AT TIME ZONE 'UTC', 'YYYY-MM-DD"T"HH24:MI:SS"Z"')`, c.expr)
	}
	return fmt.Sprintf("NULLIF(%s, '')", c.expr)
}

// bucketExpr devolve o índice do intervalo: -1 ausente, len-1 overflow.
func bucketExpr(c column, b aggregate.Buckets, args *[]any) string {
	n := len(b.Boundaries)
	if n == 0 {
		return "-1"
	}
	num := numExpr(c.expr)
	param := func(v float64) string {
		*args = append(*args, v)
		return fmt.Sprintf("$%d::double precision", len(*args))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "CASE WHEN %s IS NULL OR %s < %s THEN -1", num, num, param(b.Boundaries[0]))
	fmt.Fprintf(&sb, " WHEN %s >= %s THEN %d", num, param(b.Boundaries[n-1]), n-1)
	for i := n - 2; i >= 0; i-- {
		fmt.Fprintf(&sb, " WHEN %s >= %s THEN %d", num, param(b.Boundaries[i]), i)
	}
	sb.WriteString(" ELSE -1 END")
	return sb.String()
}

func buildUngrouped(coll aggregate.Collection, p aggregate.Pipeline) (*query, error) {
	if _, ok := columns[coll]; !ok {
		return nil, fmt.Errorf("unknown collection %q", coll)
	}

	q := &query{}
	selects := []string{"id::text"}
	for _, f := range p.Project {
		c, err := lookup(coll, f)
		if err != nil {
			return nil, err
		}
		q.project = append(q.project, c)
		if c.kind == kindID {
			selects = append(selects, c.expr+"::text")
		} else {
			selects = append(selects, c.expr)
		}
	}

	dir := "ASC"
	if p.Descending {
		dir = "DESC"
	}
	order := "created_at, id"
	switch p.SortBy {
	case "":
		selects = append(selects, "NULL::double precision")
	case aggregate.KeyField:
		selects = append(selects, "NULL::double precision")
		order = "id::text " + dir
	default:
		c, err := lookup(coll, p.SortBy)
		if err != nil {
			return nil, err
		}
		if c.kind != kindText && c.kind != kindNumeric {
			return nil, fmt.Errorf("field %q is not sortable", p.SortBy)
		}
		selects = append(selects, numExpr(c.expr))
		order = fmt.Sprintf("%s %s NULLS LAST, created_at, id", numExpr(c.expr), dir)
	}

	q.sql = fmt.Sprintf("SELECT %s FROM %s ORDER BY %s", strings.Join(selects, ", "), coll, order)
	if p.Limit > 0 {
		q.args = append(q.args, p.Limit)
		q.sql += fmt.Sprintf(" LIMIT $%d", len(q.args))
	}
	return q, nil
}

func (a *Aggregator) Aggregate(ctx context.Context, coll aggregate.Collection, p aggregate.Pipeline) ([]aggregate.Row, error) {
	q, err := buildQuery(coll, p)
	if err != nil {
		return nil, err
	}

	rows, err := a.DB.QueryContext(ctx, q.sql, q.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []aggregate.Row{}
	for rows.Next() {
		var row aggregate.Row
		if q.grouped {
			row, err = scanGrouped(rows, p)
		} else {
			row, err = scanUngrouped(rows, p, q.project)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return aggregate.Finish(out, p), nil
}

func scanGrouped(rows *sql.Rows, p aggregate.Pipeline) (aggregate.Row, error) {
	var (
		textKey   sql.NullString
		bucketIdx int
	)
	dest := make([]any, 0, len(p.Accumulators)+1)
	if p.Grouping == aggregate.ByBucket {
		dest = append(dest, &bucketIdx)
	} else {
		dest = append(dest, &textKey)
	}
	vals := make([]sql.NullFloat64, len(p.Accumulators))
	for i := range vals {
		dest = append(dest, &vals[i])
	}
	if err := rows.Scan(dest...); err != nil {
		return aggregate.Row{}, err
	}

	row := aggregate.Row{Values: map[string]float64{}}
	if p.Grouping == aggregate.ByBucket {
		row.Key = bucketKey(p.Buckets, bucketIdx)
	} else if textKey.Valid {
		row.Key = textKey.String
	}
	for i, acc := range p.Accumulators {
		if vals[i].Valid {
			row.Values[acc.Name] = vals[i].Float64
		}
	}
	return row, nil
}

func bucketKey(b aggregate.Buckets, idx int) any {
	switch {
	case idx < 0 || idx >= len(b.Boundaries):
		return b.Missing
	case idx == len(b.Boundaries)-1:
		return b.Overflow
	}
	return b.Boundaries[idx]
}

func scanUngrouped(rows *sql.Rows, p aggregate.Pipeline, project []column) (aggregate.Row, error) {
	var (
		id   string
		sort sql.NullFloat64
	)
	texts := make([]sql.NullString, len(project))
	times := make([]sql.NullTime, len(project))
	dest := []any{&id}
	for i, c := range project {
		if c.kind == kindTime {
			dest = append(dest, &times[i])
		} else {
			dest = append(dest, &texts[i])
		}
	}
	dest = append(dest, &sort)
	if err := rows.Scan(dest...); err != nil {
		return aggregate.Row{}, err
	}

	row := aggregate.Row{Key: id, Values: map[string]float64{}}
	if len(project) > 0 {
		row.Fields = make(map[string]any, len(project))
		for i, c := range project {
			var v any
			if c.kind == kindTime {
				if times[i].Valid {
					v = times[i].Time
				}
			} else if texts[i].Valid && texts[i].String != "" {
				v = texts[i].String
			}
			row.Fields[p.Project[i]] = v
		}
	}
	if sort.Valid && p.SortBy != "" && p.SortBy != aggregate.KeyField {
		row.Values[p.SortBy] = sort.Float64
	}
	return row, nil
}
