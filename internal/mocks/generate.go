// Package mocks provides gomock implementations of the core repository ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	locks := mocks.NewMockJobLockRepository(ctrl)
//	locks.EXPECT().TryAcquire(gomock.Any(), gomock.Any()).Return(true, nil)
package mocks

// TryAcquire, GetActiveHolder, Complete, Fail
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=job_lock_repository_mock.go github.com/target/accessjobs/internal/core JobLockRepository

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=job_run_history_repository_mock.go github.com/target/accessjobs/internal/core JobRunHistoryRepository

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=job_run_reaper_repository_mock.go github.com/target/accessjobs/internal/core JobRunReaperRepository

// ListActiveExpiring, CountNotifications, ListExpiredActive, RecordNotification, Revoke
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=access_request_repository_mock.go github.com/target/accessjobs/internal/core AccessRequestRepository

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=notifier_mock.go github.com/target/accessjobs/internal/core Notifier

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=run_event_publisher_mock.go github.com/target/accessjobs/internal/core RunEventPublisher
