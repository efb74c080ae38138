package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/grading"
)

const gradeSelect = `
	SELECT g.id, g.score, g.student_id, g.module_code,
		s.first_name, s.last_name, s.username, s.email,
		m.name AS module_name, m.mnc AS module_mnc
	FROM grades g
	JOIN students s ON s.id = g.student_id
	JOIN modules m ON m.code = g.module_code`

type gradeRow struct {
	pairRow
	Score int `db:"score"`
}

func (row gradeRow) toGrade() (grading.Grade, error) {
	g, err := grading.MakeGrade(row.Score, row.student(), row.module())
	if err != nil {
		return grading.Grade{}, core.NewShutdownError(err, "stored grade %d has score %d", row.ID, row.Score)
	}
	g.ID = row.ID
	return g, nil
}

type gradeRepository struct {
	tx *sqlx.Tx
}

var _ grading.GradeRepository = (*gradeRepository)(nil) // interface compliance check

func (repo *gradeRepository) selectMany(ctx context.Context, where string, args ...interface{}) ([]grading.Grade, error) {
	var rows []gradeRow
	q := repo.tx.Rebind(gradeSelect + " " + where + " ORDER BY g.id")
	if err := repo.tx.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting grades")
	}
	grades := make([]grading.Grade, 0, len(rows))
	for _, row := range rows {
		g, err := row.toGrade()
		if err != nil {
			return nil, err
		}
		grades = append(grades, g)
	}
	return grades, nil
}

func (repo *gradeRepository) selectOne(ctx context.Context, where string, args ...interface{}) (grading.Grade, error) {
	var row gradeRow
	if err := repo.tx.GetContext(ctx, &row, repo.tx.Rebind(gradeSelect+" "+where), args...); err != nil {
		return grading.Grade{}, trapErr(err)
	}
	return row.toGrade()
}

func (repo *gradeRepository) Save(ctx context.Context, g grading.Grade) (grading.Grade, error) {
	if g.ID == 0 {
		q := repo.tx.Rebind("INSERT INTO grades (score, student_id, module_code) VALUES (?, ?, ?) RETURNING id")
		if err := repo.tx.QueryRowxContext(ctx, q, g.Score(), g.Student.ID, g.Module.Code).Scan(&g.ID); err != nil {
			return grading.Grade{}, trapErr(err)
		}
	} else {
		q := repo.tx.Rebind("UPDATE grades SET score = ?, student_id = ?, module_code = ? WHERE id = ?")
		res, err := repo.tx.ExecContext(ctx, q, g.Score(), g.Student.ID, g.Module.Code, g.ID)
		if err != nil {
			return grading.Grade{}, trapErr(err)
		}
		if err = checkAffected(res); err != nil {
			return grading.Grade{}, err
		}
	}
	return repo.Find(ctx, g.ID)
}

func (repo *gradeRepository) Find(ctx context.Context, id int64) (grading.Grade, error) {
	return repo.selectOne(ctx, "WHERE g.id = ?", id)
}

func (repo *gradeRepository) FindAll(ctx context.Context) ([]grading.Grade, error) {
	return repo.selectMany(ctx, "")
}

func (repo *gradeRepository) Delete(ctx context.Context, g grading.Grade) error {
	res, err := repo.tx.ExecContext(ctx, repo.tx.Rebind("DELETE FROM grades WHERE id = ?"), g.ID)
	if err != nil {
		return trapErr(err)
	}
	return checkAffected(res)
}

func (repo *gradeRepository) DeleteMany(ctx context.Context, grades []grading.Grade) error {
	ids := make([]int64, 0, len(grades))
	for _, g := range grades {
		ids = append(ids, g.ID)
	}
	return execIn(ctx, repo.tx, "DELETE FROM grades WHERE id IN (?)", ids, len(ids))
}

func (repo *gradeRepository) FindByPair(ctx context.Context, studentID int64, moduleCode string) (grading.Grade, error) {
	return repo.selectOne(ctx, "WHERE g.student_id = ? AND g.module_code = ?", studentID, moduleCode)
}

func (repo *gradeRepository) FindByStudent(ctx context.Context, studentID int64) ([]grading.Grade, error) {
	return repo.selectMany(ctx, "WHERE g.student_id = ?", studentID)
}

func (repo *gradeRepository) FindByModule(ctx context.Context, moduleCode string) ([]grading.Grade, error) {
	return repo.selectMany(ctx, "WHERE g.module_code = ?", moduleCode)
}
