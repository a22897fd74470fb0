package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/brightpath/platform/pkg/eventlog"
)

var replayDLQCmd = &cobra.Command{
	Use:   "replay-dlq",
	Short: "Re-publish dead-letter records back to their original topic",
	Long: `Reads records from the dead-letter topic (spec §4.2) and re-publishes each one's
original payload to its original topic, keyed by its original key, so a fix can be replayed
without re-deriving the original producer call. Offsets are committed for records this process
re-published and for records it skipped (unparsable, or not matching --original-topic); a
--dry-run commits nothing. A failed republish ends the run before any offset is committed, so a
failed replay is safe to re-run.`,
	RunE: runReplayDLQ,
}

func init() {
	replayDLQCmd.Flags().String("consumer-group", "brightpathctl-replay", "Consumer group to read the dead-letter topic with")
	replayDLQCmd.Flags().String("original-topic", "", "Only replay records whose originalTopic matches this (default: all)")
	replayDLQCmd.Flags().Int("limit", 100, "Maximum number of records to replay in this run")
	replayDLQCmd.Flags().Bool("dry-run", false, "Print what would be replayed without publishing")
}

// deadLetterWire mirrors the unexported deadLetterPayload wire shape worker.EventLogDeadLetterPublisher
// writes, so replay can decode it without reaching into the worker package's internals.
type deadLetterWire struct {
	OriginalTopic string `json:"originalTopic"`
	OriginalKey   string `json:"originalKey,omitempty"`
	OriginalValue string `json:"originalValue"`
	ConsumerName  string `json:"consumerName"`
	FailureReason string `json:"failureReason"`
	AttemptCount  int    `json:"attemptCount"`
}

func runReplayDLQ(cmd *cobra.Command, args []string) error {
	group, _ := cmd.Flags().GetString("consumer-group")
	topicFilter, _ := cmd.Flags().GetString("original-topic")
	limit, _ := cmd.Flags().GetInt("limit")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	brokers, err := kafkaBrokersFromFlags(cmd)
	if err != nil {
		return err
	}

	ctx := context.Background()

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ClientID("brightpathctl"),
		kgo.ConsumerGroup(group),
		kgo.ConsumeTopics(eventlog.TopicDeadLetter),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		return errors.Wrap(err, "failed to dial kafka consumer")
	}
	defer consumer.Close()

	producer, err := kgo.NewClient(kgo.SeedBrokers(brokers...), kgo.ClientID("brightpathctl"))
	if err != nil {
		return errors.Wrap(err, "failed to dial kafka producer")
	}
	defer producer.Close()

	var replayed int

	for replayed < limit {
		fetches := consumer.PollFetches(ctx)
		if fetches.IsClientClosed() {
			break
		}

		for _, fetchErr := range fetches.Errors() {
			fmt.Printf("fetch error topic=%s partition=%d: %v\n", fetchErr.Topic, fetchErr.Partition, fetchErr.Err)
		}

		records := fetches.Records()
		if len(records) == 0 {
			break
		}

		for _, rec := range records {
			if replayed >= limit {
				break
			}

			raw := eventlog.RawRecord{Topic: rec.Topic, Partition: rec.Partition, Offset: rec.Offset, Key: rec.Key, Value: rec.Value}

			enriched, err := eventlog.DecodeWire(raw)
			if err != nil {
				fmt.Printf("skip unparsable dead-letter record at offset %d: %v\n", rec.Offset, err)
				consumer.MarkCommitRecords(rec)

				continue
			}

			var dl deadLetterWire
			if err := enriched.Decode(&dl); err != nil {
				fmt.Printf("skip dead-letter record %s with unparsable body: %v\n", enriched.Envelope.EventID, err)
				consumer.MarkCommitRecords(rec)

				continue
			}

			if topicFilter != "" && dl.OriginalTopic != topicFilter {
				consumer.MarkCommitRecords(rec)
				continue
			}

			fmt.Printf("replaying eventId=%s originalTopic=%s key=%s failureReason=%q attempts=%d\n",
				enriched.Envelope.EventID, dl.OriginalTopic, dl.OriginalKey, dl.FailureReason, dl.AttemptCount)

			if dryRun {
				replayed++
				continue
			}

			result := producer.ProduceSync(ctx, &kgo.Record{
				Topic: dl.OriginalTopic,
				Key:   []byte(dl.OriginalKey),
				Value: []byte(dl.OriginalValue),
			})
			if err := result.FirstErr(); err != nil {
				return fmt.Errorf("republish eventId=%s to %s: %w", enriched.Envelope.EventID, dl.OriginalTopic, err)
			}

			consumer.MarkCommitRecords(rec)
			replayed++
		}
	}

	if err := consumer.CommitMarkedOffsets(ctx); err != nil {
		return fmt.Errorf("commit offsets: %w", err)
	}

	fmt.Printf("replayed %d record(s)\n", replayed)

	return nil
}
