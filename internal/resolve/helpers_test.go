package resolve

import "github.com/bastiangx/sqlassist/internal/dialect"

func genericDialect() dialect.Dialect { return dialect.NewGeneric() }
