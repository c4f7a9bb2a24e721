package accounts

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/dmitrymomot/hostkit/pkg/tablecache"
)

const countriesTable = "countries"

// Country is a row of the countries lookup table.
type Country struct {
	Code     string `db:"code" json:"code"`
	Name     string `db:"name" json:"name"`
	Currency string `db:"currency" json:"currency"`
}

// Countries serves the country table.
type Countries interface {
	All(ctx context.Context) ([]Country, error)
	Get(ctx context.Context, code string) (Country, bool, error)
}

// NewCountries registers the countries table with f, ordered by name and
// keyed by code.
func NewCountries(f *tablecache.Factory) (*tablecache.Table[Country], error) {
	return tablecache.For(f, countriesTable,
		tablecache.WithQuery[Country](func(ds *goqu.SelectDataset) *goqu.SelectDataset {
			return ds.Select("code", "name", "currency").Order(goqu.C("name").Asc())
		}),
		tablecache.WithKey(func(c Country) string { return c.Code }),
	)
}
