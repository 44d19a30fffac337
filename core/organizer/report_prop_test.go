package organizer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genFileResult 随机生成一条合法的文件终态记录
// ResultSize不超过OriginalSize（工具只会压小或者原样搬运）
func genFileResult() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(0, 6), // Outcome取值范围
		gen.Int64Range(1, 1<<20),
		gen.Float64Range(0, 1),
		gen.Identifier(),
	).Map(func(vals []interface{}) FileResult {
		outcome := Outcome(vals[0].(int))
		original := vals[1].(int64)
		result := int64(float64(original) * vals[2].(float64))

		res := FileResult{
			Source:       vals[3].(string) + ".png",
			Target:       "t/" + vals[3].(string) + ".png",
			Outcome:      outcome,
			OriginalSize: original,
			ResultSize:   original,
		}
		switch outcome {
		case OutcomeOptimized:
			res.ResultSize = result
		case OutcomeError:
			// 无法分类的记录没有目标和大小
			res.Failure = FailureCannotClassify
			res.Target = ""
			res.OriginalSize = 0
			res.ResultSize = 0
			res.Err = "no date"
		case OutcomeFallbackMoved, OutcomeFallbackFailed:
			res.Failure = FailureOptimization
			res.Err = "pngquant failed"
		}
		return res
	})
}

func genOrganizeResult() gopter.Gen {
	return gen.SliceOf(genFileResult()).Map(func(results []FileResult) *OrganizeResult {
		r := &OrganizeResult{
			TotalFiles: len(results),
			Results:    results,
		}
		for _, res := range results {
			if res.Success() {
				r.Processed++
			} else {
				r.Failed++
			}
		}
		return r
	})
}

func TestAggregateProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("outcome counts partition the result set", prop.ForAll(
		func(r *OrganizeResult) bool {
			totals := Aggregate(r)
			sum := totals.Optimized + totals.SkippedNonPNG + totals.SkippedWouldGrow +
				totals.MovedOnly + totals.Errors + totals.FallbackMoved + totals.FallbackFailed
			return sum == len(r.Results)
		},
		genOrganizeResult(),
	))

	properties.Property("processed plus failed equals total", prop.ForAll(
		func(r *OrganizeResult) bool {
			totals := Aggregate(r)
			return totals.Processed+totals.Failed == totals.Total
		},
		genOrganizeResult(),
	))

	properties.Property("saved bytes is consistent and percent stays in range", prop.ForAll(
		func(r *OrganizeResult) bool {
			totals := Aggregate(r)
			if totals.SavedBytes != totals.OriginalBytes-totals.ResultBytes {
				return false
			}
			return totals.PercentSaved >= 0 && totals.PercentSaved <= 100
		},
		genOrganizeResult(),
	))

	properties.Property("top wins holds at most five, ordered by ratio", prop.ForAll(
		func(r *OrganizeResult) bool {
			totals := Aggregate(r)
			if len(totals.TopWins) > 5 {
				return false
			}
			for i := 1; i < len(totals.TopWins); i++ {
				if totals.TopWins[i-1].CompressionRatio() < totals.TopWins[i].CompressionRatio() {
					return false
				}
			}
			for _, win := range totals.TopWins {
				if win.Outcome != OutcomeOptimized || win.ResultSize >= win.OriginalSize {
					return false
				}
			}
			return true
		},
		genOrganizeResult(),
	))

	properties.Property("summarize is a pure function of the result", prop.ForAll(
		func(r *OrganizeResult) bool {
			return Summarize(r) == Summarize(r)
		},
		genOrganizeResult(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestDestinationProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300

	properties := gopter.NewProperties(parameters)
	c, err := NewClassifier("")
	if err != nil {
		t.Fatal(err)
	}

	// 1-28号任何年月都是合法日期
	genDate := gopter.CombineGens(
		gen.IntRange(2000, 2099),
		gen.IntRange(1, 12),
		gen.IntRange(1, 28),
	)

	properties.Property("every valid date yields a stable, well-formed destination", prop.ForAll(
		func(vals []interface{}) bool {
			year, month, day := vals[0].(int), vals[1].(int), vals[2].(int)
			name := fmt.Sprintf("Screenshot %04d-%02d-%02d at 10.00.00.png", year, month, day)

			first, err := c.Destination("root", name)
			if err != nil {
				return false
			}
			second, err := c.Destination("root", name)
			if err != nil || first != second {
				return false
			}

			monthDir := fmt.Sprintf("%d-%02d-%s", year, month, monthNames[month-1])
			return strings.Contains(first, monthDir) &&
				strings.Contains(first, "Week") &&
				strings.HasSuffix(first, name)
		},
		genDate,
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
