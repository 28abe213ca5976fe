package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/usermgmt/internal/common"
	"github.com/dmitrijs2005/usermgmt/internal/dbx"
	"github.com/dmitrijs2005/usermgmt/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// genderArgs maps the optional classification fields to their nullable
// SQL representation.
func genderArgs(u *models.User) (sql.NullString, sql.NullFloat64) {
	var g sql.NullString
	var p sql.NullFloat64
	if u.Gender != nil {
		g = sql.NullString{String: string(*u.Gender), Valid: true}
	}
	if u.GenderConfidence != nil {
		p = sql.NullFloat64{Float64: *u.GenderConfidence, Valid: true}
	}
	return g, p
}

func applyGender(u *models.User, g sql.NullString, p sql.NullFloat64) {
	if g.Valid {
		gender := models.Gender(g.String)
		u.Gender = &gender
	}
	if p.Valid {
		conf := p.Float64
		u.GenderConfidence = &conf
	}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (nome, email, senha, genero, prob_genero)
         VALUES ($1, $2, $3, $4, $5)
		 RETURNING id
		 `

	g, p := genderArgs(user)
	err := r.db.QueryRowContext(ctx, query,
		user.Name, user.Email, user.PasswordHash, g, p).Scan(&user.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, nome, email, senha, genero, prob_genero, otp_secret FROM users
		 WHERE email = $1
		 `

	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query :=
		`SELECT id, nome, email, senha, genero, prob_genero, otp_secret FROM users
		 WHERE id = $1
		 `

	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var g sql.NullString
	var p sql.NullFloat64
	var secret sql.NullString

	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &g, &p, &secret)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	applyGender(user, g, p)
	user.SecondFactorSecret = secret.String
	return user, nil
}

// Update rewrites all editable fields of the row. The second-factor secret
// is managed separately by SetSecondFactorSecret.
func (r *PostgresRepository) Update(ctx context.Context, user *models.User) error {
	query :=
		`UPDATE users SET nome = $1, email = $2, senha = $3, genero = $4, prob_genero = $5
		 WHERE id = $6
		 `

	g, p := genderArgs(user)
	res, err := r.db.ExecContext(ctx, query,
		user.Name, user.Email, user.PasswordHash, g, p, user.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return r.requireRow(res)
}

func (r *PostgresRepository) SetSecondFactorSecret(ctx context.Context, id int64, secret string) error {
	query :=
		`UPDATE users SET otp_secret = $1
		 WHERE id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, secret, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return r.requireRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query :=
		`DELETE FROM users
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return r.requireRow(res)
}

func (r *PostgresRepository) requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*ListedUser, error) {
	query :=
		`SELECT id, nome, email, genero FROM users
		 ORDER BY nome
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*ListedUser, 0)
	for rows.Next() {
		u := &ListedUser{}
		var g sql.NullString
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &g); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if g.Valid {
			gender := models.Gender(g.String)
			u.Gender = &gender
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// StatsByGender aggregates accounts into male/female/unknown buckets.
// Accounts without a stored confidence contribute 0 to the average.
func (r *PostgresRepository) StatsByGender(ctx context.Context) ([]*GenderStat, error) {
	query :=
		`SELECT COALESCE(genero, 'unknown') AS genero,
		        COUNT(*) AS total,
		        AVG(COALESCE(prob_genero, 0)) AS avg_confidence
		 FROM users
		 GROUP BY COALESCE(genero, 'unknown')
		 ORDER BY total DESC
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*GenderStat, 0)
	for rows.Next() {
		s := &GenderStat{}
		var g string
		if err := rows.Scan(&g, &s.Count, &s.AvgConfidence); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		s.Gender = models.Gender(g)
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
