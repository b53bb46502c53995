// Package pipelines describes aggregation pipelines as typed stages. The
// stages are only rendered here; MongoDB executes them.
package pipelines

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Stage is one step of an aggregation pipeline.
type Stage interface {
	Render() bson.D
}

// Build renders stages in order.
func Build(stages ...Stage) mongo.Pipeline {
	p := make(mongo.Pipeline, 0, len(stages))
	for _, s := range stages {
		p = append(p, s.Render())
	}
	return p
}

// Match keeps rows whose fields equal the given values.
type Match struct {
	Filter bson.D
}

func (m Match) Render() bson.D {
	return bson.D{{Key: "$match", Value: m.Filter}}
}

// Unwind emits one row per element of Path. Rows where the array is empty or
// missing are dropped.
type Unwind struct {
	Path string
}

func (u Unwind) Render() bson.D {
	return bson.D{{Key: "$unwind", Value: "$" + u.Path}}
}

// Accumulator is a named per-group measure, e.g. {totalVendidas: {$sum: "$qty"}}.
type Accumulator struct {
	Field    string
	Operator string
	Expr     interface{}
}

// Sum adds up expr within each group.
func Sum(field, path string) Accumulator {
	return Accumulator{Field: field, Operator: "$sum", Expr: "$" + path}
}

// Group partitions rows by the value at KeyPath. With no accumulators the
// output is just the distinct keys.
type Group struct {
	KeyPath      string
	Accumulators []Accumulator
}

func (g Group) Render() bson.D {
	body := bson.D{{Key: "_id", Value: "$" + g.KeyPath}}
	for _, a := range g.Accumulators {
		body = append(body, bson.E{Key: a.Field, Value: bson.D{{Key: a.Operator, Value: a.Expr}}})
	}
	return bson.D{{Key: "$group", Value: body}}
}

// Lookup attaches the documents of From whose ForeignField equals the row's
// LocalField as an array named As.
type Lookup struct {
	From         string
	LocalField   string
	ForeignField string
	As           string
}

func (l Lookup) Render() bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: l.From},
		{Key: "localField", Value: l.LocalField},
		{Key: "foreignField", Value: l.ForeignField},
		{Key: "as", Value: l.As},
	}}}
}

// Join is a Lookup followed by an Unwind of its result, so rows without a
// match are dropped.
func Join(from, localField, foreignField, as string) []Stage {
	return []Stage{
		Lookup{From: from, LocalField: localField, ForeignField: foreignField, As: as},
		Unwind{Path: as},
	}
}

// Field is one projected output field. Source is either a path to copy
// ("prenda.nombre") or empty to keep the field as-is.
type Field struct {
	Name   string
	Source string
}

// Project reshapes rows to the listed fields.
type Project struct {
	Fields []Field
}

func (p Project) Render() bson.D {
	body := make(bson.D, 0, len(p.Fields))
	for _, f := range p.Fields {
		if f.Source == "" {
			body = append(body, bson.E{Key: f.Name, Value: 1})
			continue
		}
		body = append(body, bson.E{Key: f.Name, Value: "$" + f.Source})
	}
	return bson.D{{Key: "$project", Value: body}}
}

// Sort orders rows by Field; Descending flips the direction.
type Sort struct {
	Field      string
	Descending bool
}

func (s Sort) Render() bson.D {
	dir := 1
	if s.Descending {
		dir = -1
	}
	return bson.D{{Key: "$sort", Value: bson.D{{Key: s.Field, Value: dir}}}}
}

// Limit caps the number of rows.
type Limit struct {
	N int64
}

func (l Limit) Render() bson.D {
	return bson.D{{Key: "$limit", Value: l.N}}
}
