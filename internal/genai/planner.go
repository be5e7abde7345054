package genai

// Batch is one planned outbound request: a bounded sub-count of questions
// for one or more topics. Batches exist only during orchestration.
type Batch struct {
	Topics []string
	Count  int
}

// planBatches divides total as evenly as possible across topics, the
// remainder going one extra unit to the first topics in input order.
// Allotments above maxSize split into same-topic batches; the merge pass
// then groups anything below minSize.
func planBatches(topics []string, total, minSize, maxSize int) []Batch {
	if total <= 0 || len(topics) == 0 {
		return nil
	}

	base := total / len(topics)
	remainder := total % len(topics)

	var batches []Batch
	for i, topic := range topics {
		count := base
		if i < remainder {
			count++
		}
		if count == 0 {
			continue
		}
		for count > maxSize {
			batches = append(batches, Batch{Topics: []string{topic}, Count: maxSize})
			count -= maxSize
		}
		batches = append(batches, Batch{Topics: []string{topic}, Count: count})
	}

	return mergeUndersized(batches, minSize)
}

// mergeUndersized walks the batch list in order, folding undersized batches
// forward until the accumulator reaches minSize. A still-undersized trailing
// accumulator merges backward into the previous flushed batch; the model is
// unreliable on tiny requests, so no trailing runt goes out alone.
func mergeUndersized(batches []Batch, minSize int) []Batch {
	if len(batches) <= 1 {
		return batches
	}

	var merged []Batch
	var current *Batch
	for _, b := range batches {
		if current == nil {
			acc := Batch{Topics: append([]string(nil), b.Topics...), Count: b.Count}
			current = &acc
		} else {
			current.Count += b.Count
			current.Topics = appendMissingTopics(current.Topics, b.Topics)
		}
		if current.Count >= minSize {
			merged = append(merged, *current)
			current = nil
		}
	}

	if current != nil {
		if len(merged) > 0 {
			last := &merged[len(merged)-1]
			last.Count += current.Count
			last.Topics = appendMissingTopics(last.Topics, current.Topics)
		} else {
			merged = append(merged, *current)
		}
	}

	return merged
}

func appendMissingTopics(dst, src []string) []string {
	for _, t := range src {
		found := false
		for _, existing := range dst {
			if existing == t {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, t)
		}
	}
	return dst
}
