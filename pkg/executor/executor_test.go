package executor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/creativelab/compositor/pkg/compositor"
	"github.com/creativelab/compositor/pkg/schemas"
)

// fakeCompositor writes the output file unless the job is on its fail list.
type fakeCompositor struct {
	failOn map[string]error
	calls  []string
}

func (f *fakeCompositor) Composite(ctx context.Context, job *schemas.RenderJob) error {
	f.calls = append(f.calls, job.OutputPath)
	if err, ok := f.failOn[job.OutputPath]; ok {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(job.OutputPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(job.OutputPath, []byte("rendered"), 0644)
}

func testJobs(dir string, n int) []*schemas.RenderJob {
	jobs := make([]*schemas.RenderJob, n)
	for i := range jobs {
		jobs[i] = &schemas.RenderJob{
			Kind:       schemas.KindStatic,
			Format:     schemas.FormatSquare,
			OutputPath: filepath.Join(dir, "outputs", "1x1", fmt.Sprintf("job%d.png", i)),
			Position:   schemas.DefaultPosition(),
		}
	}
	return jobs
}

func TestExecute_FailureIsolation(t *testing.T) {
	dir := t.TempDir()
	jobs := testJobs(dir, 3)

	decodeErr := &compositor.Error{
		Class: schemas.FailureDecode,
		Op:    "decode hero",
		Err:   errors.New("bad png"),
	}
	fake := &fakeCompositor{failOn: map[string]error{jobs[1].OutputPath: decodeErr}}

	e := New(WithStaticCompositor(fake))
	result, err := e.Execute(context.Background(), jobs, ExecuteOptions{})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	if result.Success != 2 || result.Failed != 1 {
		t.Errorf("got success=%d failed=%d, want 2/1", result.Success, result.Failed)
	}
	if len(fake.calls) != 3 {
		t.Errorf("a failed job must not stop the batch, got %d calls", len(fake.calls))
	}

	if len(result.Failures) != 1 {
		t.Fatalf("expected 1 failure record, got %d", len(result.Failures))
	}
	failure := result.Failures[0]
	if failure.OutputPath != jobs[1].OutputPath {
		t.Errorf("failure path = %q, want %q", failure.OutputPath, jobs[1].OutputPath)
	}
	if failure.Class != schemas.FailureDecode {
		t.Errorf("failure class = %v, want %v", failure.Class, schemas.FailureDecode)
	}
	if result.BatchID == "" {
		t.Error("expected a batch ID")
	}
}

func TestExecute_ProgressAfterEveryJob(t *testing.T) {
	dir := t.TempDir()
	jobs := testJobs(dir, 3)

	// Even the failing job reports progress.
	fake := &fakeCompositor{failOn: map[string]error{jobs[0].OutputPath: errors.New("boom")}}

	type call struct {
		done, total int
		desc        string
	}
	var calls []call

	e := New(WithStaticCompositor(fake))
	_, err := e.Execute(context.Background(), jobs, ExecuteOptions{
		OnProgress: func(done, total int, desc string) {
			calls = append(calls, call{done, total, desc})
		},
	})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	if len(calls) != 3 {
		t.Fatalf("expected 3 progress calls, got %d", len(calls))
	}
	for i, c := range calls {
		if c.done != i+1 || c.total != 3 {
			t.Errorf("call %d = (%d, %d), want (%d, 3)", i, c.done, c.total, i+1)
		}
	}
	if calls[1].desc != "job1.png" {
		t.Errorf("description = %q, want job1.png", calls[1].desc)
	}
}

func TestExecute_KindDispatch(t *testing.T) {
	dir := t.TempDir()
	static := &fakeCompositor{}
	video := &fakeCompositor{}

	jobs := testJobs(dir, 2)
	jobs[1].Kind = schemas.KindVideo

	e := New(WithStaticCompositor(static), WithVideoCompositor(video))
	if _, err := e.Execute(context.Background(), jobs, ExecuteOptions{}); err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	if len(static.calls) != 1 || len(video.calls) != 1 {
		t.Errorf("dispatch wrong: static=%d video=%d calls", len(static.calls), len(video.calls))
	}
}

func TestExecute_EmptyBatch(t *testing.T) {
	e := New(WithStaticCompositor(&fakeCompositor{}))

	result, err := e.Execute(context.Background(), nil, ExecuteOptions{})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if result.Success != 0 || result.Failed != 0 {
		t.Errorf("empty batch must be all zeroes, got %+v", result)
	}
	if result.BatchID == "" {
		t.Error("expected a batch ID even for an empty batch")
	}
}

func TestExecute_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := New(WithStaticCompositor(&fakeCompositor{}))
	if _, err := e.Execute(ctx, testJobs(dir, 1), ExecuteOptions{}); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestExecute_PublishMirrorsOutputs(t *testing.T) {
	dir := t.TempDir()
	jobs := testJobs(dir, 1)
	publishRoot := filepath.Join(dir, "published")

	e := New(
		WithStaticCompositor(&fakeCompositor{}),
		WithPublisher(NewPublisher(context.Background())),
	)
	result, err := e.Execute(context.Background(), jobs, ExecuteOptions{
		PublishPrefix: "file://" + publishRoot,
	})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if result.Failed != 0 {
		t.Fatalf("expected clean batch, got failures: %+v", result.Failures)
	}

	mirrored := filepath.Join(publishRoot, jobs[0].OutputPath)
	if _, err := os.Stat(mirrored); err != nil {
		t.Errorf("expected mirrored output at %s: %v", mirrored, err)
	}
}

func TestExecute_PublishFailureIsJobFailure(t *testing.T) {
	dir := t.TempDir()
	jobs := testJobs(dir, 1)

	e := New(
		WithStaticCompositor(&fakeCompositor{}),
		WithPublisher(NewPublisher(context.Background())),
	)
	result, err := e.Execute(context.Background(), jobs, ExecuteOptions{
		PublishPrefix: "ftp://example.com/renders",
	})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	if result.Failed != 1 {
		t.Fatalf("expected publish failure to count against the job, got %+v", result)
	}
	if result.Failures[0].Class != schemas.FailureWrite {
		t.Errorf("publish failure class = %v, want %v", result.Failures[0].Class, schemas.FailureWrite)
	}
}

func TestJoinURI(t *testing.T) {
	tests := []struct {
		prefix, rel, want string
	}{
		{"s3://bucket/renders", "outputs/1x1/a.png", "s3://bucket/renders/outputs/1x1/a.png"},
		{"s3://bucket/renders/", "outputs/1x1/a.png", "s3://bucket/renders/outputs/1x1/a.png"},
		{"file:///data", "./outputs/a.png", "file:///data/outputs/a.png"},
	}

	for _, tt := range tests {
		if got := joinURI(tt.prefix, tt.rel); got != tt.want {
			t.Errorf("joinURI(%q, %q) = %q, want %q", tt.prefix, tt.rel, got, tt.want)
		}
	}
}
