package services

import (
	"database/sql"

	log "github.com/sirupsen/logrus"

	"fleetflow/internal/domain"
)

// inTx runs fn inside one transaction so multi-entity writes are
// all-or-nothing as observed by subsequent reads. A rollback failure leaves
// state potentially inconsistent and is alerted as a fatal operational error.
func inTx(db *sql.DB, requestID string, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return domain.UnavailableError{Err: err}
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.WithFields(log.Fields{
				"request_id": requestID,
				"error":      err.Error(),
				"rollback":   rbErr.Error(),
			}).Error("FATAL: lifecycle rollback failed, entity state may be inconsistent")
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		log.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("FATAL: lifecycle commit failed")
		return domain.InternalError{Msg: "failed to commit state change", Err: err}
	}
	return nil
}
