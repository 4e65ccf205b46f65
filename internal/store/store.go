package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"umsassist-backend/internal/components/assert"
	"umsassist-backend/internal/components/chrono"
	"umsassist-backend/internal/components/retry"
	"umsassist-backend/internal/components/telemetry"
	"umsassist-backend/internal/store/db"
)

const (
	report_store_save_student         = "store.save-student"
	report_store_get_student          = "store.get-student"
	report_store_registration_numbers = "store.registration-numbers"
	report_store_retry                = "store.retry"
)

const registrationPageSize = 1000

// Store persists student profiles, chat messages and glitch reports. Every
// operation is retried on transport failures.
type Store struct {
	db    *sql.DB
	qry   *db.Queries
	time  chrono.API
	tel   telemetry.API
	retry retry.Policy
}

type Option func(s *Store)

// WithRetryPolicy replaces the default retry policy.
func WithRetryPolicy(policy retry.Policy) Option {
	return func(s *Store) {
		s.retry = policy
	}
}

func NewStore(database *sql.DB, clock chrono.API, tel telemetry.API, opts ...Option) Store {
	assert.NotNil(database)
	assert.NotNil(clock)
	assert.NotNil(tel)

	s := Store{
		db:    database,
		qry:   db.New(database),
		time:  clock,
		tel:   telemetry.NewScopedAPI("store", tel),
		retry: retry.Default(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.retry.OnRetry == nil {
		s.retry.OnRetry = func(err error, wait time.Duration) {
			s.tel.ReportWarning(report_store_retry, err, wait.String())
		}
	}
	return s
}

func (s Store) getStudent(ctx context.Context, qry *db.Queries, regNo string) (StudentRecord, bool, error) {
	raw, err := qry.GetStudentProfile(ctx, regNo)
	if errors.Is(err, sql.ErrNoRows) {
		return StudentRecord{}, false, nil
	}
	if err != nil {
		return StudentRecord{}, false, err
	}
	var record StudentRecord
	err = json.Unmarshal([]byte(raw), &record)
	if err != nil {
		return StudentRecord{}, false, fmt.Errorf("decode student %s: %w", regNo, err)
	}
	return record, true, nil
}

// GetStudent returns the cached record for regNo, found is false if there
// is none.
func (s Store) GetStudent(ctx context.Context, regNo string) (record StudentRecord, found bool, err error) {
	type result struct {
		record StudentRecord
		found  bool
	}
	res, err := retry.Do(ctx, s.retry, func() (result, error) {
		record, found, err := s.getStudent(ctx, s.qry, regNo)
		return result{record: record, found: found}, err
	})
	if err != nil {
		s.tel.ReportBroken(report_store_get_student, err, regNo)
		return StudentRecord{}, false, err
	}
	return res.record, res.found, nil
}

// mergeStudent decides what to write over an existing record. ok is false
// when nothing should change.
func mergeStudent(regNo string, existing, incoming StudentRecord) (merged StudentRecord, ok bool) {
	if incoming.IsEmpty() {
		return existing, false
	}
	if incoming.RegNo == "" {
		incoming.RegNo = regNo
	}
	if incoming.StudentName == NotLoggedInName &&
		existing.StudentName != "" &&
		existing.StudentName != NotLoggedInName {
		incoming.StudentName = existing.StudentName
	}
	if incoming.ContactInfo == nil {
		if existing.ContactInfo != nil {
			contact := *existing.ContactInfo
			incoming.ContactInfo = &contact
		} else {
			incoming.ContactInfo = &ContactInfo{}
		}
	}
	return incoming, true
}

// SaveStudent upserts the cached record for regNo. An empty record never
// overwrites cached data, on a new registration number it stores a
// placeholder instead.
func (s Store) SaveStudent(ctx context.Context, regNo string, record StudentRecord) error {
	err := retry.Exec(ctx, s.retry, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()
		txqry := s.qry.WithTx(tx)

		now := s.time.Now().Unix()

		existing, found, err := s.getStudent(ctx, txqry, regNo)
		if err != nil {
			return err
		}

		toWrite := record
		if found {
			var changed bool
			toWrite, changed = mergeStudent(regNo, existing, record)
			if !changed {
				err = txqry.TouchStudentProfile(ctx, db.TouchStudentProfileParams{
					UpdatedAt:          now,
					RegistrationNumber: regNo,
				})
				if err != nil {
					return err
				}
				return tx.Commit()
			}
		} else if record.IsEmpty() {
			toWrite = notLoggedInRecord(regNo)
		} else if toWrite.RegNo == "" {
			toWrite.RegNo = regNo
		}

		serialized, err := json.Marshal(toWrite)
		if err != nil {
			return err
		}
		err = txqry.UpsertStudentProfile(ctx, db.UpsertStudentProfileParams{
			RegistrationNumber: regNo,
			StudentInfo:        string(serialized),
			UpdatedAt:          now,
		})
		if err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		s.tel.ReportBroken(report_store_save_student, err, regNo)
		return fmt.Errorf("save student %s: %w", regNo, err)
	}
	return nil
}

// AllRegistrationNumbers lists every registration number with a cached
// record, reading the directory a page at a time.
func (s Store) AllRegistrationNumbers(ctx context.Context) ([]string, error) {
	out := []string{}
	for offset := int64(0); ; offset += registrationPageSize {
		page, err := retry.Do(ctx, s.retry, func() ([]string, error) {
			return s.qry.ListRegistrationNumbers(ctx, db.ListRegistrationNumbersParams{
				Limit:  registrationPageSize,
				Offset: offset,
			})
		})
		if err != nil {
			s.tel.ReportBroken(report_store_registration_numbers, err)
			return nil, err
		}
		out = append(out, page...)
		if len(page) < registrationPageSize {
			return out, nil
		}
	}
}

func (s Store) HasRegistrationNumber(ctx context.Context, regNo string) (bool, error) {
	count, err := retry.Do(ctx, s.retry, func() (int64, error) {
		return s.qry.StudentProfileExists(ctx, regNo)
	})
	if err != nil {
		s.tel.ReportBroken(report_store_registration_numbers, err, regNo)
		return false, err
	}
	return count > 0, nil
}
