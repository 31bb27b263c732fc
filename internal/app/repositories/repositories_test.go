package repositories

import (
	"testing"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/sectionhub/internal/app/models"
)

func TestPaginate(t *testing.T) {
	base := newStatementBuilder().Select("s.id").From("sections s")

	tests := []struct {
		name    string
		params  ListParams
		wantSQL string
	}{
		{
			name:    "whitelisted column adds id tiebreak",
			params:  ListParams{SortBy: "name", Order: SortDesc, Limit: 10, Offset: 20},
			wantSQL: "SELECT s.id FROM sections s ORDER BY s.name DESC, s.id ASC LIMIT 10 OFFSET 20",
		},
		{
			name:    "unknown column falls back to id",
			params:  ListParams{SortBy: "name; DROP TABLE sections", Limit: 5},
			wantSQL: "SELECT s.id FROM sections s ORDER BY s.id ASC LIMIT 5",
		},
		{
			name:    "id column is not repeated",
			params:  ListParams{SortBy: "id", Order: SortDesc},
			wantSQL: "SELECT s.id FROM sections s ORDER BY s.id DESC",
		},
		{
			name:    "zero offset is omitted",
			params:  ListParams{SortBy: "max_capacity", Limit: 1},
			wantSQL: "SELECT s.id FROM sections s ORDER BY s.max_capacity ASC, s.id ASC LIMIT 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := paginate(base, tt.params, sectionSortColumns, "s.id").ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Empty(t, args)
		})
	}
}

func TestContainsPattern(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"math", "%math%"},
		{"50%", `%50\%%`},
		{"a_b", `%a\_b%`},
		{`c:\dir`, `%c:\\dir%`},
		{`%_\`, `%\%\_\\%`},
		{"", "%%"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, containsPattern(tt.query))
		})
	}
}

func TestSearchFilters(t *testing.T) {
	t.Run("sections", func(t *testing.T) {
		sql, args, err := newStatementBuilder().Select("COUNT(*)").From("sections s").
			Where(sectionSearchFilter("10%_off")).ToSql()
		require.NoError(t, err)
		assert.Equal(t, "SELECT COUNT(*) FROM sections s WHERE (s.name ILIKE $1 OR s.description ILIKE $2)", sql)
		assert.Equal(t, []interface{}{`%10\%\_off%`, `%10\%\_off%`}, args)
	})

	t.Run("students", func(t *testing.T) {
		sql, args, err := newStatementBuilder().Select("COUNT(*)").From("students st").
			Where(studentSearchFilter("ann")).ToSql()
		require.NoError(t, err)
		assert.Equal(t, "SELECT COUNT(*) FROM students st WHERE (st.first_name ILIKE $1 OR st.last_name ILIKE $2 OR st.email ILIKE $3)", sql)
		assert.Equal(t, []interface{}{"%ann%", "%ann%", "%ann%"}, args)
	})
}

func TestSectionUpdateFields(t *testing.T) {
	name := "Algebra"
	description := "Linear equations"
	capacity := 30

	tests := []struct {
		name     string
		in       models.SectionUpdate
		wantSQL  string
		wantArgs []interface{}
	}{
		{
			name:     "only updated_at",
			in:       models.SectionUpdate{},
			wantSQL:  "UPDATE sections SET updated_at = NOW() WHERE id = $1",
			wantArgs: []interface{}{int64(4)},
		},
		{
			name:     "every column in key order",
			in:       models.SectionUpdate{Name: &name, Description: &description, MaxCapacity: &capacity},
			wantSQL:  "UPDATE sections SET description = $1, max_capacity = $2, name = $3, updated_at = NOW() WHERE id = $4",
			wantArgs: []interface{}{description, capacity, name, int64(4)},
		},
		{
			name:     "clear description writes null",
			in:       models.SectionUpdate{ClearDescription: true},
			wantSQL:  "UPDATE sections SET description = $1, updated_at = NOW() WHERE id = $2",
			wantArgs: []interface{}{nil, int64(4)},
		},
		{
			name:     "clear wins over a value",
			in:       models.SectionUpdate{Description: &description, ClearDescription: true},
			wantSQL:  "UPDATE sections SET description = $1, updated_at = NOW() WHERE id = $2",
			wantArgs: []interface{}{nil, int64(4)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := newStatementBuilder().Update("sections").
				SetMap(sectionUpdateFields(tt.in)).
				Where(squirrel.Eq{"id": int64(4)}).
				ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestStudentUpdateFields(t *testing.T) {
	email := "ada@example.com"
	dob := time.Date(2001, 2, 3, 0, 0, 0, 0, time.UTC)

	sql, args, err := newStatementBuilder().Update("students").
		SetMap(studentUpdateFields(models.StudentUpdate{Email: &email, DateOfBirth: &dob})).
		Where(squirrel.Eq{"id": int64(9)}).
		ToSql()
	require.NoError(t, err)
	assert.Equal(t, "UPDATE students SET date_of_birth = $1, email = $2, updated_at = NOW() WHERE id = $3", sql)
	assert.Equal(t, []interface{}{dob, email, int64(9)}, args)
}
