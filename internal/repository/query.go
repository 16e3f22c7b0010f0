package repository

// Op is the comparison a Condition performs.
type Op int

const (
	// OpEq matches documents whose field equals the value.
	OpEq Op = iota
	// OpContains matches documents whose array field contains the value.
	OpContains
	// OpIn matches documents whose field is one of the values ([]string).
	OpIn
)

// IDField is the document identifier field name.
const IDField = "_id"

// Condition is one filter term. Conditions of a Query are and-ed.
type Condition struct {
	Field string
	Op    Op
	Value any
}

// Query describes a Find or Count over a collection.
//
// The zero value matches every document, unsorted, with all fields.
type Query struct {
	Conditions []Condition
	// Fields restricts the returned fields. The id is always returned.
	// Backends that cannot project return whole documents.
	Fields []string
	// Sort is the field to sort ascending by.
	Sort string
}

// All matches every document.
func All() Query {
	return Query{}
}

// Where starts a query with an equality condition.
func Where(field string, value any) Query {
	return Query{}.Where(field, value)
}

// ByIDs matches the documents with the given ids.
func ByIDs(ids []string) Query {
	return Query{}.In(IDField, ids)
}

// Where adds an equality condition.
func (q Query) Where(field string, value any) Query {
	q.Conditions = append(append([]Condition(nil), q.Conditions...), Condition{Field: field, Op: OpEq, Value: value})
	return q
}

// Contains adds an array-contains condition.
func (q Query) Contains(field string, value any) Query {
	q.Conditions = append(append([]Condition(nil), q.Conditions...), Condition{Field: field, Op: OpContains, Value: value})
	return q
}

// In adds a membership condition.
func (q Query) In(field string, values []string) Query {
	q.Conditions = append(append([]Condition(nil), q.Conditions...), Condition{Field: field, Op: OpIn, Value: values})
	return q
}

// Select restricts the returned fields.
func (q Query) Select(fields ...string) Query {
	q.Fields = fields
	return q
}

// OrderBy sorts the results ascending by field.
func (q Query) OrderBy(field string) Query {
	q.Sort = field
	return q
}
