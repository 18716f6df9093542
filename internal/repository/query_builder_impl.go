package repository

import (
	"github.com/doug-martin/goqu/v9"
)

// queryBuilderImpl collects optional filters (audit history lookups take
// resource type, resource id and actor) and turns them into a goqu
// expression once all of them are known.
type queryBuilderImpl struct {
	conditions map[string]interface{}
}

func NewQueryBuilder() QueryBuilder {
	return &queryBuilderImpl{
		conditions: make(map[string]interface{}),
	}
}

func (q *queryBuilderImpl) AddCondition(key string, value interface{}) {
	q.conditions[key] = value
}

// BuildConditions maps each collected key through the table aliases of the
// query being built, so callers can filter on API-level names.
func (q *queryBuilderImpl) BuildConditions(aliases map[string]string) goqu.Ex {
	conditions := goqu.Ex{}
	for key, value := range q.conditions {
		if alias, ok := aliases[key]; ok {
			conditions[alias] = value
		} else {
			conditions[key] = value
		}
	}
	return conditions
}
