package loggers

import (
	"encoding/json"
	"math/rand"
	"os"
	"path"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type FakeIoWriter struct {
	Entries []string
}

func (f *FakeIoWriter) Write(p []byte) (n int, err error) {
	f.Entries = append(f.Entries, string(p))
	return len(p), nil
}

func TestLogToFile(t *testing.T) {
	fakeWriter := FakeIoWriter{}
	lMgr := MakeLoggerManager(&fakeWriter)

	logfile := path.Join(t.TempDir(), "mylogfile.txt")
	require.NoFileExists(t, logfile)
	logger, err := lMgr.MakeRootLogger(log.InfoLevel, logfile)
	require.NoError(t, err)

	testString := "1234abcd"
	logger.Info(testString)
	assert.FileExists(t, logfile)
	assert.Empty(t, fakeWriter.Entries)

	contents, err := os.ReadFile(logfile)
	require.NoError(t, err)
	assert.Contains(t, string(contents), testString)

	// loggers created later share the file.
	lMgr.MakeLogger("api", log.InfoLevel).Info("second")
	contents, err = os.ReadFile(logfile)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "second")
}

func TestLogFileError(t *testing.T) {
	lMgr := MakeLoggerManager(&FakeIoWriter{})
	_, err := lMgr.MakeRootLogger(log.InfoLevel, path.Join(t.TempDir(), "missing", "log.txt"))
	assert.Error(t, err)
}

func TestComponentField(t *testing.T) {
	fakeWriter := FakeIoWriter{}
	lMgr := MakeLoggerManager(&fakeWriter)

	root, err := lMgr.MakeRootLogger(log.DebugLevel, "-")
	require.NoError(t, err)
	root.Debug("<root>")
	lMgr.MakeLogger("rpc", log.InfoLevel).Debug("filtered")
	lMgr.MakeLogger("rpc", log.InfoLevel).WithField("method", "eth_call").Warn("retrying")

	require.Len(t, fakeWriter.Entries, 2)
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(fakeWriter.Entries[0]), &entry))
	assert.Equal(t, "main", entry["_component"])
	// html escaping is disabled.
	assert.Contains(t, fakeWriter.Entries[0], "<root>")

	require.NoError(t, json.Unmarshal([]byte(fakeWriter.Entries[1]), &entry))
	assert.Equal(t, "rpc", entry["_component"])
	assert.Equal(t, "eth_call", entry["method"])
	assert.Equal(t, "warning", entry["level"])
}

// TestThreadSafetyOfLogger ensures that multiple threads writing to a single source
// don't get corrupted
func TestThreadSafetyOfLogger(t *testing.T) {
	var atomicInt int64 = 0

	fakeWriter := FakeIoWriter{}
	lMgr := MakeLoggerManager(&fakeWriter)

	const numberOfWritesPerLogger = 20
	const numberOfLoggers = 15

	var wg sync.WaitGroup
	wg.Add(numberOfLoggers)

	for i := 0; i < numberOfLoggers; i++ {
		go func() {
			defer wg.Done()
			// Sleep a random number of milliseconds before and after to test
			// that creating a logger doesn't affect thread-safety
			time.Sleep(time.Duration(rand.Intn(50)) * time.Millisecond)
			l := lMgr.MakeLogger("worker", log.InfoLevel)
			time.Sleep(time.Duration(rand.Intn(50)) * time.Millisecond)

			for j := 0; j < numberOfWritesPerLogger; j++ {
				// Atomically adds 1 and returns new value
				localInt := atomic.AddInt64(&atomicInt, 1)
				l.Infof("%d", localInt)
			}
		}()
	}
	wg.Wait()

	require.Len(t, fakeWriter.Entries, numberOfLoggers*numberOfWritesPerLogger)

	// The writes are not ordered, so check that every number is present exactly once.
	numMap := make(map[string]bool)
	for _, line := range fakeWriter.Entries {
		var jsonText map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &jsonText))

		sourceString := jsonText["msg"].(string)
		_, ok := numMap[sourceString]
		assert.False(t, ok)
		numMap[sourceString] = true
	}
	assert.Len(t, numMap, numberOfLoggers*numberOfWritesPerLogger)
}
