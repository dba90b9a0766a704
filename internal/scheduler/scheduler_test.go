package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/frontandrew/fleet/internal/domain"
	"github.com/frontandrew/fleet/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSweeper struct {
	mock.Mock
}

func (m *MockSweeper) SweepOverdueNow(ctx context.Context) ([]*domain.Rental, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Rental), args.Error(1)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		wantErr bool
	}{
		{name: "ежедневно в 9 утра", spec: "0 9 * * *"},
		{name: "дескриптор", spec: "@hourly"},
		{name: "неверное выражение", spec: "every day", wantErr: true},
		{name: "поле секунд не поддерживается", spec: "0 0 9 * * *", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(Config{OverdueSweepSpec: tt.spec}, new(MockSweeper), logger.NewNoop())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, s.NextRun().After(time.Now()))
		})
	}
}

func TestNew_Location(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	s, err := New(Config{OverdueSweepSpec: "0 9 * * *", Location: loc}, new(MockSweeper), logger.NewNoop())
	require.NoError(t, err)

	next := s.NextRun().In(loc)
	assert.Equal(t, 9, next.Hour())
	assert.Equal(t, 0, next.Minute())
}

func TestRunJob(t *testing.T) {
	tests := []struct {
		name      string
		job       string
		mockSetup func(*MockSweeper)
		wantErr   bool
	}{
		{
			name: "успешный проход",
			job:  JobSweepOverdue,
			mockSetup: func(m *MockSweeper) {
				m.On("SweepOverdueNow", mock.Anything).Return([]*domain.Rental{{OverdueDays: 2}}, nil)
			},
		},
		{
			name: "ошибка хранилища",
			job:  JobSweepOverdue,
			mockSetup: func(m *MockSweeper) {
				m.On("SweepOverdueNow", mock.Anything).Return(nil, errors.New("connection reset"))
			},
			wantErr: true,
		},
		{
			name: "panic в задаче",
			job:  JobSweepOverdue,
			mockSetup: func(m *MockSweeper) {
				m.On("SweepOverdueNow", mock.Anything).Run(func(mock.Arguments) { panic("boom") })
			},
			wantErr: true,
		},
		{
			name:      "неизвестная задача",
			job:       "rebuild-index",
			mockSetup: func(*MockSweeper) {},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sweeper := new(MockSweeper)
			tt.mockSetup(sweeper)

			s, err := New(Config{OverdueSweepSpec: "@daily"}, sweeper, logger.NewNoop())
			require.NoError(t, err)

			var runErr error
			assert.NotPanics(t, func() { runErr = s.RunJob(tt.job) })
			if tt.wantErr {
				assert.Error(t, runErr)
			} else {
				assert.NoError(t, runErr)
			}
			sweeper.AssertExpectations(t)
		})
	}
}

func TestRunJob_Deadline(t *testing.T) {
	sweeper := new(MockSweeper)
	sweeper.On("SweepOverdueNow", mock.Anything).Run(func(args mock.Arguments) {
		ctx := args.Get(0).(context.Context)
		_, ok := ctx.Deadline()
		assert.True(t, ok)
	}).Return([]*domain.Rental{}, nil)

	s, err := New(Config{OverdueSweepSpec: "@daily", Timeout: time.Second}, sweeper, logger.NewNoop())
	require.NoError(t, err)
	require.NoError(t, s.RunJob(JobSweepOverdue))
}

func TestStartStop(t *testing.T) {
	s, err := New(Config{OverdueSweepSpec: "@daily"}, new(MockSweeper), logger.NewNoop())
	require.NoError(t, err)

	s.Start()
	s.Stop()
}
