package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/gradebook/core/grading"
)

const registrationSelect = `
	SELECT r.id, r.student_id, r.module_code,
		s.first_name, s.last_name, s.username, s.email,
		m.name AS module_name, m.mnc AS module_mnc
	FROM registrations r
	JOIN students s ON s.id = r.student_id
	JOIN modules m ON m.code = r.module_code`

// pairRow is a registration or grade row joined with its student and module.
type pairRow struct {
	ID         int64       `db:"id"`
	StudentID  int64       `db:"student_id"`
	ModuleCode string      `db:"module_code"`
	FirstName  null.String `db:"first_name"`
	LastName   null.String `db:"last_name"`
	Username   null.String `db:"username"`
	Email      null.String `db:"email"`
	ModuleName null.String `db:"module_name"`
	ModuleMNC  bool        `db:"module_mnc"`
}

func (row pairRow) student() grading.Student {
	return studentRow{
		ID:        row.StudentID,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Username:  row.Username,
		Email:     row.Email,
	}.toStudent()
}

func (row pairRow) module() grading.Module {
	return moduleRow{Code: row.ModuleCode, Name: row.ModuleName, MNC: row.ModuleMNC}.toModule()
}

func (row pairRow) toRegistration() grading.Registration {
	return grading.Registration{ID: row.ID, Student: row.student(), Module: row.module()}
}

type registrationRepository struct {
	tx *sqlx.Tx
}

var _ grading.RegistrationRepository = (*registrationRepository)(nil) // interface compliance check

func (repo *registrationRepository) selectMany(ctx context.Context, where string, args ...interface{}) ([]grading.Registration, error) {
	var rows []pairRow
	q := repo.tx.Rebind(registrationSelect + " " + where + " ORDER BY r.id")
	if err := repo.tx.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting registrations")
	}
	regs := make([]grading.Registration, 0, len(rows))
	for _, row := range rows {
		regs = append(regs, row.toRegistration())
	}
	return regs, nil
}

func (repo *registrationRepository) selectOne(ctx context.Context, where string, args ...interface{}) (grading.Registration, error) {
	var row pairRow
	if err := repo.tx.GetContext(ctx, &row, repo.tx.Rebind(registrationSelect+" "+where), args...); err != nil {
		return grading.Registration{}, trapErr(err)
	}
	return row.toRegistration(), nil
}

func (repo *registrationRepository) Save(ctx context.Context, r grading.Registration) (grading.Registration, error) {
	if r.ID == 0 {
		q := repo.tx.Rebind("INSERT INTO registrations (student_id, module_code) VALUES (?, ?) RETURNING id")
		if err := repo.tx.QueryRowxContext(ctx, q, r.Student.ID, r.Module.Code).Scan(&r.ID); err != nil {
			return grading.Registration{}, trapErr(err)
		}
	} else {
		q := repo.tx.Rebind("UPDATE registrations SET student_id = ?, module_code = ? WHERE id = ?")
		res, err := repo.tx.ExecContext(ctx, q, r.Student.ID, r.Module.Code, r.ID)
		if err != nil {
			return grading.Registration{}, trapErr(err)
		}
		if err = checkAffected(res); err != nil {
			return grading.Registration{}, err
		}
	}
	return repo.Find(ctx, r.ID)
}

func (repo *registrationRepository) Find(ctx context.Context, id int64) (grading.Registration, error) {
	return repo.selectOne(ctx, "WHERE r.id = ?", id)
}

func (repo *registrationRepository) FindAll(ctx context.Context) ([]grading.Registration, error) {
	return repo.selectMany(ctx, "")
}

func (repo *registrationRepository) Delete(ctx context.Context, r grading.Registration) error {
	res, err := repo.tx.ExecContext(ctx, repo.tx.Rebind("DELETE FROM registrations WHERE id = ?"), r.ID)
	if err != nil {
		return trapErr(err)
	}
	return checkAffected(res)
}

func (repo *registrationRepository) DeleteMany(ctx context.Context, regs []grading.Registration) error {
	ids := make([]int64, 0, len(regs))
	for _, r := range regs {
		ids = append(ids, r.ID)
	}
	return execIn(ctx, repo.tx, "DELETE FROM registrations WHERE id IN (?)", ids, len(ids))
}

func (repo *registrationRepository) ExistsByPair(ctx context.Context, studentID int64, moduleCode string) (bool, error) {
	var n int
	q := repo.tx.Rebind("SELECT COUNT(*) FROM registrations WHERE student_id = ? AND module_code = ?")
	if err := repo.tx.GetContext(ctx, &n, q, studentID, moduleCode); err != nil {
		return false, errors.Wrap(err, "counting registrations")
	}
	return n > 0, nil
}

func (repo *registrationRepository) FindByPair(ctx context.Context, studentID int64, moduleCode string) (grading.Registration, error) {
	return repo.selectOne(ctx, "WHERE r.student_id = ? AND r.module_code = ?", studentID, moduleCode)
}

func (repo *registrationRepository) FindByStudent(ctx context.Context, studentID int64) ([]grading.Registration, error) {
	return repo.selectMany(ctx, "WHERE r.student_id = ?", studentID)
}

func (repo *registrationRepository) FindByModule(ctx context.Context, moduleCode string) ([]grading.Registration, error) {
	return repo.selectMany(ctx, "WHERE r.module_code = ?", moduleCode)
}
