// Package mocks provides mock implementations for testing the roster job engine.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the repository and port interfaces in internal/core. The mocks are generated
// with go:generate directives.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockBulkJobRepository(ctrl)
//	mockRepo.EXPECT().GetByID(gomock.Any(), jobID).Return(job, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=bulk_job_repository_mock.go github.com/classtools/rosterjobs/internal/core BulkJobRepository

//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=line_target_repository_mock.go github.com/classtools/rosterjobs/internal/core LineTargetRepository

//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=batch_status_repository_mock.go github.com/classtools/rosterjobs/internal/core BatchStatusRepository

//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=roster_repository_mock.go github.com/classtools/rosterjobs/internal/core RosterRepository

//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=score_repository_mock.go github.com/classtools/rosterjobs/internal/core ScoreRepository

//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=report_store_mock.go github.com/classtools/rosterjobs/internal/core ReportStore

//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=progress_publisher_mock.go github.com/classtools/rosterjobs/internal/core ProgressPublisher

//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=line_worker_mock.go github.com/classtools/rosterjobs/internal/core LineWorker

//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=mailer_mock.go github.com/classtools/rosterjobs/internal/core Mailer,MailSession
