package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/gradebook/core/grading"
)

const studentColumns = "id, first_name, last_name, username, email"

type studentRow struct {
	ID        int64       `db:"id"`
	FirstName null.String `db:"first_name"`
	LastName  null.String `db:"last_name"`
	Username  null.String `db:"username"`
	Email     null.String `db:"email"`
}

func (row studentRow) toStudent() grading.Student {
	return grading.Student{
		ID:        row.ID,
		FirstName: row.FirstName.String,
		LastName:  row.LastName.String,
		Username:  row.Username.String,
		Email:     row.Email.String,
	}
}

func nullString(s string) null.String {
	return null.NewString(s, s != "")
}

type studentRepository struct {
	tx *sqlx.Tx
}

var _ grading.StudentRepository = (*studentRepository)(nil) // interface compliance check

func (repo *studentRepository) Save(ctx context.Context, s grading.Student) (grading.Student, error) {
	q := repo.tx.Rebind(`
		INSERT INTO students (id, first_name, last_name, username, email)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			username = excluded.username,
			email = excluded.email`)
	_, err := repo.tx.ExecContext(ctx, q,
		s.ID, nullString(s.FirstName), nullString(s.LastName), nullString(s.Username), nullString(s.Email))
	if err != nil {
		return grading.Student{}, trapErr(err)
	}
	return repo.Find(ctx, s.ID)
}

func (repo *studentRepository) Find(ctx context.Context, id int64) (grading.Student, error) {
	var row studentRow
	q := repo.tx.Rebind("SELECT " + studentColumns + " FROM students WHERE id = ?")
	if err := repo.tx.GetContext(ctx, &row, q, id); err != nil {
		return grading.Student{}, trapErr(err)
	}
	return row.toStudent(), nil
}

func (repo *studentRepository) FindAll(ctx context.Context) ([]grading.Student, error) {
	var rows []studentRow
	if err := repo.tx.SelectContext(ctx, &rows, "SELECT "+studentColumns+" FROM students ORDER BY id"); err != nil {
		return nil, errors.Wrap(err, "selecting students")
	}
	studs := make([]grading.Student, 0, len(rows))
	for _, row := range rows {
		studs = append(studs, row.toStudent())
	}
	return studs, nil
}

func (repo *studentRepository) Delete(ctx context.Context, s grading.Student) error {
	res, err := repo.tx.ExecContext(ctx, repo.tx.Rebind("DELETE FROM students WHERE id = ?"), s.ID)
	if err != nil {
		return trapErr(err)
	}
	return checkAffected(res)
}

func (repo *studentRepository) DeleteMany(ctx context.Context, students []grading.Student) error {
	ids := make([]int64, 0, len(students))
	for _, s := range students {
		ids = append(ids, s.ID)
	}
	return execIn(ctx, repo.tx, "DELETE FROM students WHERE id IN (?)", ids, len(ids))
}
