package repositories

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/yigit/sectionhub/internal/pkg/dberrors"
)

func TestRoleRepository_Delete(t *testing.T) {
	tests := []struct {
		name   string
		expect func(*pgxmock.ExpectedExec)
		want   error
	}{
		{
			name:   "still assigned",
			expect: func(e *pgxmock.ExpectedExec) { e.WillReturnError(pgError(dberrors.ForeignKeyViolation)) },
			want:   ErrRoleInUse,
		},
		{
			name:   "missing role",
			expect: func(e *pgxmock.ExpectedExec) { e.WillReturnResult(pgxmock.NewResult("DELETE", 0)) },
			want:   ErrNotFound,
		},
		{
			name:   "deleted",
			expect: func(e *pgxmock.ExpectedExec) { e.WillReturnResult(pgxmock.NewResult("DELETE", 1)) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, database := newMockDB(t)
			repo := NewRoleRepository(database)

			tt.expect(mock.ExpectExec(quoted("DELETE FROM roles WHERE id = $1")).WithArgs(int64(3)))

			err := repo.Delete(context.Background(), 3)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
