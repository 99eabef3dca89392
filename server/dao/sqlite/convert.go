package sqlite

import (
	"encoding/base64"
	"fmt"
	"net/mail"
	"time"

	"github.com/dekarrin/minnowquest/internal/util"
	"github.com/dekarrin/minnowquest/server/dao"
	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
)

func convertToDB_UUID(u uuid.UUID) string {
	return u.String()
}

func convertFromDB_UUID(s string, target *uuid.UUID) error {
	parsed, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	*target = parsed
	return nil
}

func convertToDB_Time(t time.Time) int64 {
	return t.Unix()
}

func convertFromDB_Time(t int64, target *time.Time) error {
	*target = time.Unix(t, 0)
	return nil
}

func convertToDB_Email(email *mail.Address) string {
	if email == nil {
		return ""
	}
	return email.Address
}

func convertFromDB_Email(s string, target **mail.Address) error {
	if s == "" {
		*target = nil
		return nil
	}
	parsed, err := mail.ParseAddress(s)
	if err != nil {
		return err
	}
	*target = parsed
	return nil
}

func convertToDB_Role(r dao.Role) string {
	return r.String()
}

func convertFromDB_Role(s string, target *dao.Role) error {
	parsed, err := dao.ParseRole(s)
	if err != nil {
		return err
	}
	*target = parsed
	return nil
}

func convertToDB_Extras(m map[string]string) string {
	return base64.StdEncoding.EncodeToString(rezi.EncBinary(extrasBlob(m)))
}

func convertFromDB_Extras(s string, target *map[string]string) error {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return err
	}

	var eb extrasBlob
	if _, err := rezi.DecBinary(data, &eb); err != nil {
		return err
	}

	*target = map[string]string(eb)
	return nil
}

// extrasBlob round-trips a command's extras map through REZI for column
// storage. Keys are encoded in sorted order so the same map always produces
// the same bytes.
type extrasBlob map[string]string

func (eb extrasBlob) MarshalBinary() ([]byte, error) {
	var enc []byte

	enc = append(enc, rezi.EncInt(len(eb))...)
	for _, k := range util.OrderedKeys(eb) {
		enc = append(enc, rezi.EncString(k)...)
		enc = append(enc, rezi.EncString(eb[k])...)
	}

	return enc, nil
}

func (eb *extrasBlob) UnmarshalBinary(data []byte) error {
	count, n, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("extras count: %w", err)
	}
	data = data[n:]

	m := make(map[string]string, count)
	for i := 0; i < count; i++ {
		var k, v string

		k, n, err = rezi.DecString(data)
		if err != nil {
			return fmt.Errorf("extras key: %w", err)
		}
		data = data[n:]

		v, n, err = rezi.DecString(data)
		if err != nil {
			return fmt.Errorf("extras value for key %q: %w", k, err)
		}
		data = data[n:]

		m[k] = v
	}

	*eb = m
	return nil
}
