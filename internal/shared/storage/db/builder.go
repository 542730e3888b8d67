package db

import sq "github.com/Masterminds/squirrel"

// SQL is a statement builder using Postgres $n placeholders.
var SQL = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
