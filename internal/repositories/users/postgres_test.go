package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/usermgmt/internal/common"
	"github.com/dmitrijs2005/usermgmt/internal/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func ptrGender(g models.Gender) *models.Gender { return &g }
func ptrFloat(f float64) *float64              { return &f }

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+users\s*\(nome,\s*email,\s*senha,\s*genero,\s*prob_genero\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*RETURNING\s+id\s*$`

	rows := sqlmock.NewRows([]string{"id"}).AddRow(int64(42))
	mock.ExpectQuery(q).
		WithArgs("Maria Silva", "maria@x.com", "$2a$10$hash", "female", 0.9).
		WillReturnRows(rows)

	u := &models.User{
		Name:             "Maria Silva",
		Email:            "maria@x.com",
		PasswordHash:     "$2a$10$hash",
		Gender:           ptrGender(models.GenderFemale),
		GenderConfidence: ptrFloat(0.9),
	}
	got, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 42 {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestCreate_NullGender(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+users`

	rows := sqlmock.NewRows([]string{"id"}).AddRow(int64(7))
	mock.ExpectQuery(q).
		WithArgs("Alex Santos", "alex@x.com", "$2a$10$hash", nil, nil).
		WillReturnRows(rows)

	u := &models.User{Name: "Alex Santos", Email: "alex@x.com", PasswordHash: "$2a$10$hash"}
	got, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 7 {
		t.Fatalf("unexpected id: %d", got.ID)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+users`).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{Name: "x", Email: "x@x", PasswordHash: "h"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func userColumns() []string {
	return []string{"id", "nome", "email", "senha", "genero", "prob_genero", "otp_secret"}
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*nome,\s*email,\s*senha,\s*genero,\s*prob_genero,\s*otp_secret\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1\s*$`

	rows := sqlmock.NewRows(userColumns()).
		AddRow(int64(1), "Maria Silva", "maria@x.com", "$2a$10$hash", "female", 0.9, "SECRET32")
	mock.ExpectQuery(q).WithArgs("maria@x.com").WillReturnRows(rows)

	got, err := repo.GetByEmail(context.Background(), "maria@x.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if got.ID != 1 || got.Name != "Maria Silva" || got.SecondFactorSecret != "SECRET32" {
		t.Fatalf("unexpected user: %+v", got)
	}
	if got.Gender == nil || *got.Gender != models.GenderFemale {
		t.Fatalf("unexpected gender: %+v", got.Gender)
	}
	if got.GenderConfidence == nil || *got.GenderConfidence != 0.9 {
		t.Fatalf("unexpected confidence: %+v", got.GenderConfidence)
	}
}

func TestGetByEmail_NullFields(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(userColumns()).
		AddRow(int64(2), "Alex Santos", "alex@x.com", "$2a$10$hash", nil, nil, nil)
	mock.ExpectQuery(`(?s)^SELECT.+WHERE\s+email`).WithArgs("alex@x.com").WillReturnRows(rows)

	got, err := repo.GetByEmail(context.Background(), "alex@x.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if got.Gender != nil || got.GenderConfidence != nil || got.SecondFactorSecret != "" {
		t.Fatalf("expected empty optional fields, got %+v", got)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT.+WHERE\s+email`).WithArgs("ghost@x.com").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@x.com")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*nome,\s*email,\s*senha,\s*genero,\s*prob_genero,\s*otp_secret\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1\s*$`

	rows := sqlmock.NewRows(userColumns()).
		AddRow(int64(3), "João Souza", "joao@x.com", "$2a$10$hash", "male", 0.8, nil)
	mock.ExpectQuery(q).WithArgs(int64(3)).WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), 3)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.Email != "joao@x.com" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestUpdate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+users\s+SET\s+nome\s*=\s*\$1,\s*email\s*=\s*\$2,\s*senha\s*=\s*\$3,\s*genero\s*=\s*\$4,\s*prob_genero\s*=\s*\$5\s+WHERE\s+id\s*=\s*\$6\s*$`

	mock.ExpectExec(q).
		WithArgs("Maria Souza", "maria@x.com", "$2a$10$hash", "female", 0.9, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	u := &models.User{
		ID:               1,
		Name:             "Maria Souza",
		Email:            "maria@x.com",
		PasswordHash:     "$2a$10$hash",
		Gender:           ptrGender(models.GenderFemale),
		GenderConfidence: ptrFloat(0.9),
	}
	if err := repo.Update(context.Background(), u); err != nil {
		t.Fatalf("Update error: %v", err)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^UPDATE\s+users\s+SET\s+nome`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.User{ID: 99, Name: "x", Email: "x@x", PasswordHash: "h"})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestSetSecondFactorSecret(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+users\s+SET\s+otp_secret\s*=\s*\$1\s+WHERE\s+id\s*=\s*\$2\s*$`

	mock.ExpectExec(q).
		WithArgs("NEWSECRET32", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetSecondFactorSecret(context.Background(), 5, "NEWSECRET32"); err != nil {
		t.Fatalf("SetSecondFactorSecret error: %v", err)
	}
}

func TestDelete_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1\s*$`

	mock.ExpectExec(q).WithArgs(int64(4)).WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), 4); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestList_OrderedProjection(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*nome,\s*email,\s*genero\s+FROM\s+users\s+ORDER\s+BY\s+nome\s*$`

	rows := sqlmock.NewRows([]string{"id", "nome", "email", "genero"}).
		AddRow(int64(2), "Alex Santos", "alex@x.com", nil).
		AddRow(int64(1), "Maria Silva", "maria@x.com", "female")
	mock.ExpectQuery(q).WillReturnRows(rows)

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 rows, got %d", len(got))
	}
	if got[0].Gender != nil {
		t.Fatalf("want nil gender for first row, got %v", *got[0].Gender)
	}
	if got[1].Gender == nil || *got[1].Gender != models.GenderFemale {
		t.Fatalf("unexpected gender on second row: %+v", got[1].Gender)
	}
}

func TestStatsByGender(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+COALESCE\(genero,\s*'unknown'\)\s+AS\s+genero,.+FROM\s+users\s+GROUP\s+BY\s+COALESCE\(genero,\s*'unknown'\)\s+ORDER\s+BY\s+total\s+DESC\s*$`

	rows := sqlmock.NewRows([]string{"genero", "total", "avg_confidence"}).
		AddRow("male", int64(2), 0.7).
		AddRow("unknown", int64(1), 0.0)
	mock.ExpectQuery(q).WillReturnRows(rows)

	got, err := repo.StatsByGender(context.Background())
	if err != nil {
		t.Fatalf("StatsByGender error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 buckets, got %d", len(got))
	}
	if got[0].Gender != models.GenderMale || got[0].Count != 2 || got[0].AvgConfidence != 0.7 {
		t.Fatalf("unexpected bucket: %+v", got[0])
	}
	if got[1].Gender != models.GenderUnknown || got[1].AvgConfidence != 0 {
		t.Fatalf("unexpected bucket: %+v", got[1])
	}
}
