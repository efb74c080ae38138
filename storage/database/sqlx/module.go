package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/gradebook/core/grading"
)

const moduleColumns = "code, name, mnc"

type moduleRow struct {
	Code string      `db:"code"`
	Name null.String `db:"name"`
	MNC  bool        `db:"mnc"`
}

func (row moduleRow) toModule() grading.Module {
	return grading.Module{Code: row.Code, Name: row.Name.String, MNC: row.MNC}
}

type moduleRepository struct {
	tx *sqlx.Tx
}

var _ grading.ModuleRepository = (*moduleRepository)(nil) // interface compliance check

func (repo *moduleRepository) Save(ctx context.Context, m grading.Module) (grading.Module, error) {
	q := repo.tx.Rebind(`
		INSERT INTO modules (code, name, mnc)
		VALUES (?, ?, ?)
		ON CONFLICT (code) DO UPDATE SET name = excluded.name, mnc = excluded.mnc`)
	if _, err := repo.tx.ExecContext(ctx, q, m.Code, nullString(m.Name), m.MNC); err != nil {
		return grading.Module{}, trapErr(err)
	}
	return repo.Find(ctx, m.Code)
}

func (repo *moduleRepository) Find(ctx context.Context, code string) (grading.Module, error) {
	var row moduleRow
	q := repo.tx.Rebind("SELECT " + moduleColumns + " FROM modules WHERE code = ?")
	if err := repo.tx.GetContext(ctx, &row, q, code); err != nil {
		return grading.Module{}, trapErr(err)
	}
	return row.toModule(), nil
}

func (repo *moduleRepository) FindAll(ctx context.Context) ([]grading.Module, error) {
	var rows []moduleRow
	if err := repo.tx.SelectContext(ctx, &rows, "SELECT "+moduleColumns+" FROM modules ORDER BY code"); err != nil {
		return nil, errors.Wrap(err, "selecting modules")
	}
	mods := make([]grading.Module, 0, len(rows))
	for _, row := range rows {
		mods = append(mods, row.toModule())
	}
	return mods, nil
}

func (repo *moduleRepository) Delete(ctx context.Context, m grading.Module) error {
	res, err := repo.tx.ExecContext(ctx, repo.tx.Rebind("DELETE FROM modules WHERE code = ?"), m.Code)
	if err != nil {
		return trapErr(err)
	}
	return checkAffected(res)
}

func (repo *moduleRepository) DeleteMany(ctx context.Context, modules []grading.Module) error {
	codes := make([]string, 0, len(modules))
	for _, m := range modules {
		codes = append(codes, m.Code)
	}
	return execIn(ctx, repo.tx, "DELETE FROM modules WHERE code IN (?)", codes, len(codes))
}
