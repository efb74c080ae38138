package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/trezcool/gradebook/core/grading"
	appfs "github.com/trezcool/gradebook/fs"
)

type (
	seedData struct {
		Students      []seedStudent `yaml:"students"`
		Modules       []seedModule  `yaml:"modules"`
		Registrations []seedPair    `yaml:"registrations"`
		Grades        []seedGrade   `yaml:"grades"`
	}

	seedStudent struct {
		ID        int64  `yaml:"id"`
		FirstName string `yaml:"firstName"`
		LastName  string `yaml:"lastName"`
		Username  string `yaml:"username"`
		Email     string `yaml:"email"`
	}

	seedModule struct {
		Code string `yaml:"code"`
		Name string `yaml:"name"`
		MNC  bool   `yaml:"mnc"`
	}

	seedPair struct {
		Student int64  `yaml:"student"`
		Module  string `yaml:"module"`
	}

	seedGrade struct {
		seedPair `yaml:",inline"`
		Score    int `yaml:"score"`
	}
)

var readSeedFunc = readSeed // mockable

// readSeed reads path, or the embedded demo data when path is empty.
func readSeed(path string) ([]byte, error) {
	if path == "" {
		return fs.ReadFile(appfs.FS, appfs.DemoSeedFile)
	}
	return os.ReadFile(path)
}

// seed loads the data through the grading service so that mandatory modules are registered
// and every invariant is checked. Registrations already made by a mandatory module are skipped.
func (cli *commandLine) seed(ctx context.Context, path string) error {
	raw, err := readSeedFunc(path)
	if err != nil {
		return errors.Wrap(err, "reading seed file")
	}
	var data seedData
	if err = yaml.Unmarshal(raw, &data); err != nil {
		return errors.Wrap(err, "decoding seed file")
	}

	for _, s := range data.Students {
		_, err = cli.svc.CreateStudent(ctx, grading.NewStudent{
			ID:        s.ID,
			FirstName: s.FirstName,
			LastName:  s.LastName,
			Username:  s.Username,
			Email:     s.Email,
		})
		if err != nil {
			return errors.Wrapf(err, "creating student %d", s.ID)
		}
	}
	for _, m := range data.Modules {
		if _, err = cli.svc.CreateModule(ctx, grading.NewModule{Code: m.Code, Name: m.Name, MNC: m.MNC}); err != nil {
			return errors.Wrapf(err, "creating module %s", m.Code)
		}
	}
	var skipped int
	for _, p := range data.Registrations {
		_, err = cli.svc.RegisterStudent(ctx, grading.NewRegistration{
			Student: &grading.StudentRef{ID: p.Student},
			Module:  &grading.ModuleRef{Code: p.Module},
		})
		if errors.Cause(err) == grading.ErrDuplicateRegistration {
			skipped++
			continue
		}
		if err != nil {
			return errors.Wrapf(err, "registering student %d to %s", p.Student, p.Module)
		}
	}
	for _, g := range data.Grades {
		score := g.Score
		_, err = cli.svc.UpsertGrade(ctx, grading.NewGrade{
			Score:   &score,
			Student: &grading.StudentRef{ID: g.Student},
			Module:  &grading.ModuleRef{Code: g.Module},
		})
		if err != nil {
			return errors.Wrapf(err, "grading student %d in %s", g.Student, g.Module)
		}
	}

	fmt.Fprintf(cli.out, "seeded %d students, %d modules, %d registrations (%d already made) and %d grades\n",
		len(data.Students), len(data.Modules), len(data.Registrations), skipped, len(data.Grades))
	return nil
}
