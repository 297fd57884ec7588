package app

import (
	"bytes"
	"errors"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	bolt "go.etcd.io/bbolt"
	"gorm.io/gorm"

	"github.com/baggolabs/baggo/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// OperatorStore holds back-office accounts and their action log.
// Cloud mode keeps them in the sys_opr tables, local mode in bolt
// buckets, so the admin login works in both without a postgres
// dependency.
type OperatorStore interface {
	Get(username string) (*domain.SysOpr, error)
	Save(opr *domain.SysOpr) error
	TouchLogin(username string) error
	Log(l *domain.SysOprLog) error
	ListLogs() ([]domain.SysOprLog, error)
	PurgeLogs(before time.Time) error
}

type gormOperatorStore struct {
	db *gorm.DB
}

func newGormOperatorStore(db *gorm.DB) *gormOperatorStore {
	return &gormOperatorStore{db: db}
}

func (s *gormOperatorStore) Get(username string) (*domain.SysOpr, error) {
	var opr domain.SysOpr
	err := s.db.Where("username = ?", username).First(&opr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &opr, nil
}

func (s *gormOperatorStore) Save(opr *domain.SysOpr) error {
	return s.db.Save(opr).Error
}

func (s *gormOperatorStore) TouchLogin(username string) error {
	return s.db.Model(&domain.SysOpr{}).
		Where("username = ?", username).
		Update("last_login", time.Now()).Error
}

func (s *gormOperatorStore) Log(l *domain.SysOprLog) error {
	return s.db.Create(l).Error
}

func (s *gormOperatorStore) ListLogs() ([]domain.SysOprLog, error) {
	var rows []domain.SysOprLog
	err := s.db.Order("opt_time desc").Find(&rows).Error
	return rows, err
}

func (s *gormOperatorStore) PurgeLogs(before time.Time) error {
	return s.db.Where("opt_time < ?", before).Delete(&domain.SysOprLog{}).Error
}

const (
	oprBucket    = "sys_oprs"
	oprLogBucket = "sys_opr_logs"
)

type boltOperatorStore struct {
	db *bolt.DB
}

func newBoltOperatorStore(db *bolt.DB) (*boltOperatorStore, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{oprBucket, oprLogBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &boltOperatorStore{db: db}, nil
}

func (s *boltOperatorStore) Get(username string) (*domain.SysOpr, error) {
	var opr *domain.SysOpr
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket([]byte(oprBucket)).Get([]byte(username))
		if raw == nil {
			return nil
		}
		var o domain.SysOpr
		if err := json.Unmarshal(raw, &o); err != nil {
			return err
		}
		opr = &o
		return nil
	})
	return opr, err
}

func (s *boltOperatorStore) Save(opr *domain.SysOpr) error {
	raw, err := json.Marshal(opr)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(oprBucket)).Put([]byte(opr.Username), raw)
	})
}

func (s *boltOperatorStore) TouchLogin(username string) error {
	opr, err := s.Get(username)
	if err != nil || opr == nil {
		return err
	}
	opr.LastLogin = time.Now()
	return s.Save(opr)
}

// Log keys rows by opt_time so purge and newest-first listing walk the
// bucket in time order.
func (s *boltOperatorStore) Log(l *domain.SysOprLog) error {
	raw, err := json.Marshal(l)
	if err != nil {
		return err
	}
	key := l.OptTime.UTC().Format(time.RFC3339Nano) + "/" + strconv.FormatInt(l.ID, 10)
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(oprLogBucket)).Put([]byte(key), raw)
	})
}

func (s *boltOperatorStore) ListLogs() ([]domain.SysOprLog, error) {
	var rows []domain.SysOprLog
	err := s.db.View(func(tx *bolt.Tx) error {
		cur := tx.Bucket([]byte(oprLogBucket)).Cursor()
		for k, v := cur.Last(); k != nil; k, v = cur.Prev() {
			var l domain.SysOprLog
			if err := json.Unmarshal(v, &l); err != nil {
				return err
			}
			rows = append(rows, l)
		}
		return nil
	})
	return rows, err
}

func (s *boltOperatorStore) PurgeLogs(before time.Time) error {
	max := []byte(before.UTC().Format(time.RFC3339Nano))
	return s.db.Update(func(tx *bolt.Tx) error {
		cur := tx.Bucket([]byte(oprLogBucket)).Cursor()
		for k, _ := cur.First(); k != nil && bytes.Compare(k, max) < 0; k, _ = cur.First() {
			if err := cur.Delete(); err != nil {
				return err
			}
		}
		return nil
	})
}
