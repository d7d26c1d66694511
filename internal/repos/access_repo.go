package repos

import (
	"goldbot/internal/domain"

	"github.com/jmoiron/sqlx"
)

type AccessRepo struct{ db *sqlx.DB }

func NewAccessRepo(db *sqlx.DB) *AccessRepo { return &AccessRepo{db: db} }

func (r *AccessRepo) Admin(userID int64) (domain.Admin, error) {
	var a domain.Admin
	err := r.db.Get(&a, `SELECT user_id, channel_id, username FROM admins WHERE user_id = ?`, userID)
	return a, err
}

func (r *AccessRepo) ChannelAdmins(channelID string) ([]domain.Admin, error) {
	var out []domain.Admin
	err := r.db.Select(&out, `SELECT user_id, channel_id, username FROM admins WHERE channel_id = ?`, channelID)
	return out, err
}

// Channels lists every distinct channel some admin manages.
func (r *AccessRepo) Channels() ([]string, error) {
	var out []string
	err := r.db.Select(&out, `SELECT DISTINCT channel_id FROM admins`)
	return out, err
}

func (r *AccessRepo) UpsertAdmin(userID int64, channelID, username string) error {
	_, err := r.db.Exec(`
	  INSERT INTO admins(user_id, channel_id, username) VALUES (?,?,?)
	  ON CONFLICT(user_id) DO UPDATE SET channel_id = excluded.channel_id, username = excluded.username
	`, userID, channelID, username)
	return err
}

func (r *AccessRepo) SetAdminChannel(userID int64, channelID string) error {
	_, err := r.db.Exec(`UPDATE admins SET channel_id = ? WHERE user_id = ?`, channelID, userID)
	return err
}

func (r *AccessRepo) IsCollaborator(userID int64) (bool, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM collaborators WHERE user_id = ?`, userID)
	return n > 0, err
}

func (r *AccessRepo) UpsertCollaborator(userID int64, username string) error {
	_, err := r.db.Exec(`
	  INSERT INTO collaborators(user_id, username) VALUES (?,?)
	  ON CONFLICT(user_id) DO UPDATE SET username = excluded.username
	`, userID, username)
	return err
}

func (r *AccessRepo) Collaborators() ([]domain.Collaborator, error) {
	var out []domain.Collaborator
	err := r.db.Select(&out, `
	  SELECT user_id, username, created_at FROM collaborators ORDER BY created_at
	`)
	return out, err
}

func (r *AccessRepo) DeleteCollaborator(userID int64) error {
	_, err := r.db.Exec(`DELETE FROM collaborators WHERE user_id = ?`, userID)
	return err
}
