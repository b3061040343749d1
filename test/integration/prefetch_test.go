//go:build integration

package integration

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/quietdesk/studyguard/internal/infra"
	"github.com/quietdesk/studyguard/internal/prefetch"
	"github.com/quietdesk/studyguard/test/fixtures"
)

var _ = Describe("Prefetch directory scan", func() {
	var dir string

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "studyguard-prefetch-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() { os.RemoveAll(dir) })
	})

	write := func(name string, lastRun time.Time) {
		fb := fixtures.NewPrefetchBuffer()
		fb.RunCount = 2
		fb.RunTimes = []time.Time{lastRun}
		Expect(os.WriteFile(filepath.Join(dir, name), fb.Bytes(), 0644)).To(Succeed())
	}

	It("survives corrupt files and sorts by recency, using the real process manager", func() {
		base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		write("OLDER.EXE-00000001.pf", base)
		write("NEWER.EXE-00000002.pf", base.Add(time.Hour))
		Expect(os.WriteFile(filepath.Join(dir, "JUNK.EXE-00000003.pf"), []byte{0xFF}, 0644)).To(Succeed())

		analyzer := prefetch.NewAnalyzer(dir, infra.NewProcessManager(), zap.NewNop())
		result, err := analyzer.List(context.Background())
		Expect(err).NotTo(HaveOccurred())

		Expect(result.TotalFilesFound).To(Equal(3))
		Expect(result.ProcessedCount).To(Equal(2))
		Expect(result.Records[0].ExecutableName).To(Equal("Newer.exe"))
		Expect(result.Records[1].ExecutableName).To(Equal("Older.exe"))
	})
})
