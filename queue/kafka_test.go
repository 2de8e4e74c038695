package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"newsai/types"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
)

func TestKafkaPublisherSendsResult(t *testing.T) {
	producer := mocks.NewSyncProducer(t, mocks.NewTestConfig())
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var res Result
		if err := json.Unmarshal(val, &res); err != nil {
			return err
		}
		if res.ID != "job-7" || res.Report == nil || res.Report.Sentiment != "NEG" {
			return fmt.Errorf("unexpected result %+v", res)
		}
		return nil
	})

	pub := NewKafkaPublisherWithProducer(producer, "analysis-results")
	defer pub.Close()

	err := pub.Publish(context.Background(), Result{
		ID:     "job-7",
		Report: &types.AnalysisReport{Success: true, Sentiment: "NEG", Confidence: 0.6},
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
}

func TestKafkaPublisherFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, mocks.NewTestConfig())
	boom := errors.New("leader not available")
	producer.ExpectSendMessageAndFail(boom)

	pub := NewKafkaPublisherWithProducer(producer, "analysis-results")
	defer pub.Close()

	if err := pub.Publish(context.Background(), Result{ID: "x"}); !errors.Is(err, boom) {
		t.Fatalf("expected producer error, got %v", err)
	}
}

func TestProcessorWithKafkaPublisher(t *testing.T) {
	producer := mocks.NewSyncProducer(t, mocks.NewTestConfig())
	producer.ExpectSendMessageAndSucceed()

	pub := NewKafkaPublisherWithProducer(producer, "analysis-results")
	defer pub.Close()

	p := NewProcessor(&fakeAnalyzer{err: types.NewMissingContentError(nil)}, pub, testLogger())
	mark, err := p.HandleMessage(context.Background(), []byte(`{"id":"j","type":"text","content":""}`))
	if !mark || err != nil {
		t.Fatalf("HandleMessage = %v, %v", mark, err)
	}
}

type fakeSession struct {
	ctx    context.Context
	marked []int64
}

func (s *fakeSession) Claims() map[string][]int32                        { return nil }
func (s *fakeSession) MemberID() string                                  { return "member-1" }
func (s *fakeSession) GenerationID() int32                               { return 1 }
func (s *fakeSession) MarkOffset(string, int32, int64, string)           {}
func (s *fakeSession) Commit()                                           {}
func (s *fakeSession) ResetOffset(string, int32, int64, string)          {}
func (s *fakeSession) Context() context.Context                          { return s.ctx }
func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) { s.marked = append(s.marked, msg.Offset) }

type fakeClaim struct {
	messages chan *sarama.ConsumerMessage
}

func newFakeClaim(msgs ...*sarama.ConsumerMessage) *fakeClaim {
	ch := make(chan *sarama.ConsumerMessage, len(msgs))
	for _, m := range msgs {
		ch <- m
	}
	close(ch)
	return &fakeClaim{messages: ch}
}

func (c *fakeClaim) Topic() string                            { return "analysis-requests" }
func (c *fakeClaim) Partition() int32                         { return 0 }
func (c *fakeClaim) InitialOffset() int64                     { return 0 }
func (c *fakeClaim) HighWaterMarkOffset() int64               { return 0 }
func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.messages }

func jobMessage(offset int64, id string) *sarama.ConsumerMessage {
	return &sarama.ConsumerMessage{
		Topic:  "analysis-requests",
		Offset: offset,
		Key:    []byte(id),
		Value:  []byte(`{"id":"` + id + `","type":"text","content":"body"}`),
	}
}

func TestConsumeClaimRetriesFailedPublish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, mocks.NewTestConfig())
	producer.ExpectSendMessageAndFail(errors.New("leader not available"))
	producer.ExpectSendMessageAndSucceed()
	producer.ExpectSendMessageAndSucceed()

	pub := NewKafkaPublisherWithProducer(producer, "analysis-results")
	defer pub.Close()

	analyzer := &fakeAnalyzer{report: types.AnalysisReport{Success: true, Sentiment: "POS"}}
	h := &consumerGroupHandler{
		handler: NewProcessor(analyzer, pub, testLogger()),
		logger:  testLogger(),
		ready:   make(chan bool),
		backoff: time.Millisecond,
	}
	session := &fakeSession{ctx: context.Background()}

	if err := h.ConsumeClaim(session, newFakeClaim(jobMessage(10, "a"), jobMessage(11, "b"))); err != nil {
		t.Fatalf("ConsumeClaim: %v", err)
	}

	if len(session.marked) != 2 || session.marked[0] != 10 || session.marked[1] != 11 {
		t.Fatalf("expected offsets 10 then 11 marked, got %v", session.marked)
	}
	if len(analyzer.seen) != 3 {
		t.Fatalf("expected the first job to be analyzed twice, got %d calls", len(analyzer.seen))
	}
}

type neverMark struct{ calls int }

func (n *neverMark) HandleMessage(context.Context, []byte) (bool, error) {
	n.calls++
	return false, errors.New("publish failed")
}

func TestConsumeClaimStopsRetryingWhenSessionEnds(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	handler := &neverMark{}
	h := &consumerGroupHandler{handler: handler, logger: testLogger(), ready: make(chan bool), backoff: 5 * time.Millisecond}
	session := &fakeSession{ctx: ctx}

	if err := h.ConsumeClaim(session, newFakeClaim(jobMessage(10, "a"), jobMessage(11, "b"))); err != nil {
		t.Fatalf("ConsumeClaim: %v", err)
	}
	if len(session.marked) != 0 {
		t.Fatalf("nothing may be marked past an unfinished job, got %v", session.marked)
	}
	if handler.calls < 2 {
		t.Fatalf("expected retries before the session ended, got %d calls", handler.calls)
	}
}
