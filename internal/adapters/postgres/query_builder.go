package postgres_adapter

import (
	"fmt"
	"strings"

	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"
)

type queryBuilder struct {
	conditions []string
	args       []interface{}
	argId      int
}

func newQueryBuilder() *queryBuilder {
	return &queryBuilder{
		argId: 1,
		args:  make([]interface{}, 0),
	}
}

func (qb *queryBuilder) addCondition(condition string, fieldName string, arg interface{}) {
	qb.conditions = append(qb.conditions, fmt.Sprintf(condition, fieldName, qb.argId))
	qb.args = append(qb.args, arg)
	qb.argId++
}

// build возвращает WHERE и аргументы; nextArg - номер следующего плейсхолдера
func (qb *queryBuilder) build() (string, []interface{}, int) {
	whereClause := ""
	if len(qb.conditions) > 0 {
		whereClause = "WHERE " + strings.Join(qb.conditions, " AND ")
	}
	return whereClause, qb.args, qb.argId
}

// applyFilters разбирает фильтры каталога
func applyFilters(filters domain.PropertyFilters) (string, []interface{}, int) {
	qb := newQueryBuilder()

	// подстрока города без учета регистра
	if city := filters.NormalizedCity(); city != "" {
		qb.addCondition("LOWER(%s) LIKE $%d", "p.city", "%"+escapeLike(city)+"%")
	}

	// NULL в verification означает PENDING и сюда не попадает
	if filters.VerifiedOnly {
		qb.conditions = append(qb.conditions, "p.verification = true")
	}

	return qb.build()
}

// orderBy переводит ключ сортировки в ORDER BY
func orderBy(sort domain.SortKey) string {
	switch sort {
	case domain.SortOldest:
		return "ORDER BY p.created_at ASC"
	case domain.SortPriceAsc:
		return "ORDER BY p.price ASC NULLS FIRST, p.created_at DESC"
	case domain.SortPriceDesc:
		return "ORDER BY p.price DESC NULLS LAST, p.created_at DESC"
	default:
		return "ORDER BY p.created_at DESC"
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
