package gobatcher

import (
	"fmt"
	"strings"
	"sync"

	"github.com/samber/lo"
	"gorm.io/gorm/schema"
)

// _schemaCache memoizes parsed model schemas across iterator constructions.
// The cache is keyed by model type, so a model is expected to map to a single
// naming strategy within one process.
var _schemaCache = &sync.Map{}

// _defaultNamer mirrors the naming strategy gorm installs when a session is
// opened without an explicit one.
var _defaultNamer schema.Namer = schema.NamingStrategy{IdentifierMaxLength: 64}

// primaryKeyColumn resolves the single primary-key column of model through
// gorm's schema parser. Metadata lookup only, no I/O.
//
// Models that cannot be parsed at all yield ErrUnmappedModel. Parsed models
// must declare exactly one primary-key column: none yields
// ErrMissingPrimaryKey, several yield ErrCompositePrimaryKey.
func primaryKeyColumn(model any, namer schema.Namer) (string, error) {
	if namer == nil {
		namer = _defaultNamer
	}

	s, err := schema.Parse(model, _schemaCache, namer)
	if err != nil {
		return "", fmt.Errorf("%w: parsing %T: %v", ErrUnmappedModel, model, err)
	}

	pkColumns := lo.Map(s.PrimaryFields, func(field *schema.Field, _ int) string {
		return field.DBName
	})

	switch len(pkColumns) {
	case 0:
		return "", fmt.Errorf("%w: model %T (table %q)", ErrMissingPrimaryKey, model, s.Table)
	case 1:
		return pkColumns[0], nil
	default:
		return "", fmt.Errorf("%w: model %T declares (%s)",
			ErrCompositePrimaryKey, model, strings.Join(pkColumns, ", "))
	}
}
