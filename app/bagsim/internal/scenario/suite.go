package scenario

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/itembag/pkg/logger"
)

// ErrMismatch 至少一个场景的结果不符合期望
var ErrMismatch = errors.New("scenario expectations not met")

// Suite 一组场景文件，每个文件一个任务
type Suite struct {
	runner *Runner
	paths  []string
	logger logger.Logger

	mu      sync.Mutex
	reports map[string]*Report
}

// NewSuite 创建场景集
func NewSuite(runner *Runner, paths []string, l logger.Logger) *Suite {
	return &Suite{
		runner:  runner,
		paths:   paths,
		logger:  l.Named("suite"),
		reports: make(map[string]*Report, len(paths)),
	}
}

// Tasks 每个场景文件对应一个任务
// 任务只在场景无法加载或执行被中止时返回错误，结果不符不会中断其他场景
func (s *Suite) Tasks() []func(ctx context.Context) error {
	tasks := make([]func(ctx context.Context) error, 0, len(s.paths))
	for _, path := range s.paths {
		tasks = append(tasks, func(ctx context.Context) error {
			return s.runFile(ctx, path)
		})
	}
	return tasks
}

func (s *Suite) runFile(ctx context.Context, path string) error {
	sc, err := Load(path)
	if err != nil {
		return errors.Wrapf(err, "load scenario %s", path)
	}
	if sc.Name == "" {
		sc.Name = path
	}

	report, err := s.runner.Run(ctx, sc)
	if report != nil {
		s.mu.Lock()
		s.reports[path] = report
		s.mu.Unlock()
	}
	return err
}

// Report 获取某个场景文件的结果
func (s *Suite) Report(path string) (*Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[path]
	return r, ok
}

// Verify 检查所有场景都已执行且全部符合期望
func (s *Suite) Verify() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var failed int
	for _, path := range s.paths {
		report, ok := s.reports[path]
		if !ok {
			s.logger.Warn("scenario not executed", "path", path)
			failed++
			continue
		}
		if n := len(report.Failed()); n > 0 {
			s.logger.Warn("scenario failed", "path", path, "run_id", report.RunID, "mismatches", n)
			failed++
		}
	}
	if failed > 0 {
		return errors.Wrapf(ErrMismatch, "%d of %d scenarios", failed, len(s.paths))
	}
	s.logger.Info("all scenarios passed", "count", len(s.paths))
	return nil
}
