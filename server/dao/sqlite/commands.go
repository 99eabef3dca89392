package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dekarrin/minnowquest/server/dao"
	"github.com/google/uuid"
)

type CommandsDB struct {
	db *sql.DB
}

func (repo *CommandsDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS commands (
		id TEXT NOT NULL PRIMARY KEY,
		session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE ON UPDATE CASCADE,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE ON UPDATE CASCADE,
		input TEXT NOT NULL,
		response TEXT NOT NULL,
		extras TEXT NOT NULL,
		created INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}

	return nil
}

func (repo *CommandsDB) Create(ctx context.Context, c dao.Command) (dao.Command, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Command{}, fmt.Errorf("could not generate ID: %w", err)
	}

	stmt, err := repo.db.Prepare(`INSERT INTO commands (id, session_id, user_id, input, response, extras, created) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return dao.Command{}, wrapDBError(err)
	}

	_, err = stmt.ExecContext(
		ctx,
		convertToDB_UUID(newUUID),
		convertToDB_UUID(c.SessionID),
		convertToDB_UUID(c.UserID),
		c.Input,
		c.Response,
		convertToDB_Extras(c.Extras),
		convertToDB_Time(time.Now()),
	)
	if err != nil {
		return dao.Command{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *CommandsDB) GetAll(ctx context.Context) ([]dao.Command, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, session_id, user_id, input, response, extras, created FROM commands ORDER BY id;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	return repo.scanMany(rows)
}

func (repo *CommandsDB) GetAllBySession(ctx context.Context, sessionID uuid.UUID) ([]dao.Command, error) {
	// command history is presented in the order it happened
	rows, err := repo.db.QueryContext(ctx, `SELECT id, session_id, user_id, input, response, extras, created FROM commands WHERE session_id = ? ORDER BY created, id;`,
		convertToDB_UUID(sessionID),
	)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	all, err := repo.scanMany(rows)
	if err != nil {
		return all, err
	}
	if len(all) < 1 {
		return nil, dao.ErrNotFound
	}

	return all, nil
}

func (repo *CommandsDB) scanMany(rows *sql.Rows) ([]dao.Command, error) {
	var all []dao.Command

	for rows.Next() {
		var c dao.Command
		var id string
		var sessionID string
		var userID string
		var extras string
		var created int64
		err := rows.Scan(
			&id,
			&sessionID,
			&userID,
			&c.Input,
			&c.Response,
			&extras,
			&created,
		)

		if err != nil {
			return nil, wrapDBError(err)
		}

		err = convertFromDB_UUID(id, &c.ID)
		if err != nil {
			return all, fmt.Errorf("stored UUID %q is invalid: %w", id, err)
		}
		err = convertFromDB_UUID(sessionID, &c.SessionID)
		if err != nil {
			return all, fmt.Errorf("stored session UUID %q is invalid: %w", sessionID, err)
		}
		err = convertFromDB_UUID(userID, &c.UserID)
		if err != nil {
			return all, fmt.Errorf("stored user UUID %q is invalid: %w", userID, err)
		}
		err = convertFromDB_Extras(extras, &c.Extras)
		if err != nil {
			return all, fmt.Errorf("stored extras %q are invalid: %w", extras, err)
		}
		err = convertFromDB_Time(created, &c.Created)
		if err != nil {
			return all, fmt.Errorf("stored created time %d is invalid: %w", created, err)
		}

		all = append(all, c)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *CommandsDB) Update(ctx context.Context, id uuid.UUID, c dao.Command) (dao.Command, error) {
	// deliberately not updating created
	res, err := repo.db.ExecContext(ctx, `UPDATE commands SET id=?, session_id=?, user_id=?, input=?, response=?, extras=? WHERE id=?;`,
		convertToDB_UUID(c.ID),
		convertToDB_UUID(c.SessionID),
		convertToDB_UUID(c.UserID),
		c.Input,
		c.Response,
		convertToDB_Extras(c.Extras),
		convertToDB_UUID(id),
	)
	if err != nil {
		return dao.Command{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return dao.Command{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return dao.Command{}, dao.ErrNotFound
	}

	return repo.GetByID(ctx, c.ID)
}

func (repo *CommandsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Command, error) {
	c := dao.Command{
		ID: id,
	}
	var sessionID string
	var userID string
	var extras string
	var created int64

	row := repo.db.QueryRowContext(ctx, `SELECT session_id, user_id, input, response, extras, created FROM commands WHERE id = ?;`,
		convertToDB_UUID(id),
	)
	err := row.Scan(
		&sessionID,
		&userID,
		&c.Input,
		&c.Response,
		&extras,
		&created,
	)

	if err != nil {
		return c, wrapDBError(err)
	}

	err = convertFromDB_UUID(sessionID, &c.SessionID)
	if err != nil {
		return c, fmt.Errorf("stored session UUID %q is invalid: %w", sessionID, err)
	}
	err = convertFromDB_UUID(userID, &c.UserID)
	if err != nil {
		return c, fmt.Errorf("stored user UUID %q is invalid: %w", userID, err)
	}
	err = convertFromDB_Extras(extras, &c.Extras)
	if err != nil {
		return c, fmt.Errorf("stored extras %q are invalid: %w", extras, err)
	}
	err = convertFromDB_Time(created, &c.Created)
	if err != nil {
		return c, fmt.Errorf("stored created time %d is invalid: %w", created, err)
	}

	return c, nil
}

func (repo *CommandsDB) Delete(ctx context.Context, id uuid.UUID) (dao.Command, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM commands WHERE id = ?`, convertToDB_UUID(id))
	if err != nil {
		return curVal, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return curVal, wrapDBError(err)
	}
	if rowsAff < 1 {
		return curVal, dao.ErrNotFound
	}

	return curVal, nil
}

func (repo *CommandsDB) Close() error {
	return repo.db.Close()
}
