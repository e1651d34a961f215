package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Repo interface {
	CreateUser(ctx context.Context, user User) (User, error)
	GetUser(ctx context.Context, id string) (User, error)
	GetAllUsers(ctx context.Context) ([]User, error)
	UpdateUser(ctx context.Context, user User) (User, error)
	DeleteUser(ctx context.Context, id string) error
}

type RepoImpl struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (u *RepoImpl) CreateUser(ctx context.Context, user User) (User, error) {
	if user.Id == "" {
		user.Id = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = RoleInspector
	}
	query := `INSERT INTO users (id, username, display_name, role, timezone, google_calendar_id)
				VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := u.db.ExecContext(ctx, query,
		user.Id,
		user.Username,
		user.DisplayName,
		user.Role,
		user.Settings.Timezone,
		user.Settings.GoogleCalendar.CalendarId,
	)
	if err != nil {
		log.Errorf("failed to create user: %v", err)
		return User{}, err
	}
	return user, nil
}

func (u *RepoImpl) GetUser(ctx context.Context, id string) (User, error) {
	query := `SELECT id, username, display_name, role, timezone, google_calendar_id
				FROM users WHERE id = $1`
	var user User
	var googleCalendarId sql.NullString
	err := u.db.QueryRowContext(ctx, query, id).Scan(
		&user.Id,
		&user.Username,
		&user.DisplayName,
		&user.Role,
		&user.Settings.Timezone,
		&googleCalendarId,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	} else if err != nil {
		log.Errorf("failed to get user: %v", err)
		return User{}, err
	}
	if googleCalendarId.Valid {
		user.Settings.GoogleCalendar.CalendarId = googleCalendarId.String
	}
	return user, nil
}

func (u *RepoImpl) GetAllUsers(ctx context.Context) ([]User, error) {
	query := `SELECT id, username, display_name, role, timezone, google_calendar_id
				FROM users ORDER BY username`
	rows, err := u.db.QueryContext(ctx, query)
	if err != nil {
		log.Errorf("failed to list users: %v", err)
		return nil, err
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		var user User
		var googleCalendarId sql.NullString
		if err := rows.Scan(
			&user.Id,
			&user.Username,
			&user.DisplayName,
			&user.Role,
			&user.Settings.Timezone,
			&googleCalendarId,
		); err != nil {
			log.Errorf("failed to scan user row: %v", err)
			return nil, err
		}
		if googleCalendarId.Valid {
			user.Settings.GoogleCalendar.CalendarId = googleCalendarId.String
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (u *RepoImpl) UpdateUser(ctx context.Context, user User) (User, error) {
	query := `UPDATE users SET username = $1, display_name = $2, role = $3, timezone = $4, google_calendar_id = $5
				WHERE id = $6`
	res, err := u.db.ExecContext(ctx, query,
		user.Username,
		user.DisplayName,
		user.Role,
		user.Settings.Timezone,
		user.Settings.GoogleCalendar.CalendarId,
		user.Id,
	)
	if err != nil {
		log.Errorf("failed to update user %s: %v", user.Id, err)
		return User{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return User{}, err
	}
	if affected == 0 {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (u *RepoImpl) DeleteUser(ctx context.Context, id string) error {
	_, err := u.db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		log.Errorf("failed to delete user %s: %v", id, err)
	}
	return err
}
