package services

import (
	"context"
	"testing"

	"iitk-connect/internal/status-board/core/codemap"
	"iitk-connect/internal/status-board/core/domain/model"
	"iitk-connect/internal/status-board/core/myerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPhone = "9999999999"

func TestApplyUpdate_LocationCodes(t *testing.T) {
	for _, entry := range codemap.Default().Entries() {
		if entry.Name == "" {
			continue
		}
		t.Run(entry.Code, func(t *testing.T) {
			f := newFixture(t)
			f.seed(t, testPhone)
			ctx := context.Background()

			first, err := f.status.ApplyUpdate(ctx, testPhone, entry.Code)
			require.NoError(t, err)
			assert.Equal(t, "Updated: "+entry.Name, first.Message)
			assert.Equal(t, model.StatusAvailable, first.Driver.Status)
			assert.Equal(t, entry.Name, first.Driver.LocationName())

			second, err := f.status.ApplyUpdate(ctx, testPhone, entry.Code)
			require.NoError(t, err)
			assert.Equal(t, first.Driver.Status, second.Driver.Status)
			assert.Equal(t, first.Driver.LocationName(), second.Driver.LocationName())
			assert.Equal(t, first.Message, second.Message)
		})
	}
}

func TestApplyUpdate_OfflineClearsLocation(t *testing.T) {
	for _, prior := range []string{"", "9", "12", "0"} {
		t.Run("after "+prior, func(t *testing.T) {
			f := newFixture(t)
			f.seed(t, testPhone)
			ctx := context.Background()
			if prior != "" {
				_, err := f.status.ApplyUpdate(ctx, "9999999999", "15")
				require.NoError(t, err)
				_, err = f.status.ApplyUpdate(ctx, testPhone, prior)
				require.NoError(t, err)
			}

			res, err := f.status.ApplyUpdate(ctx, testPhone, "0")
			require.NoError(t, err)
			assert.Equal(t, "You are Offline.", res.Message)
			assert.Equal(t, model.StatusOffline, res.Driver.Status)
			assert.Nil(t, res.Driver.Location)
		})
	}
}

func TestApplyUpdate_BusyKeepsLocation(t *testing.T) {
	f := newFixture(t)
	f.seed(t, testPhone)
	ctx := context.Background()

	_, err := f.status.ApplyUpdate(ctx, testPhone, "13")
	require.NoError(t, err)

	res, err := f.status.ApplyUpdate(ctx, testPhone, "9")
	require.NoError(t, err)
	assert.Equal(t, "Status: Busy.", res.Message)
	assert.Equal(t, model.StatusBusy, res.Driver.Status)
	assert.Equal(t, "Health Centre", res.Driver.LocationName())

	// busy from offline has nothing to keep
	g := newFixture(t)
	g.seed(t, testPhone)
	res, err = g.status.ApplyUpdate(ctx, testPhone, "9")
	require.NoError(t, err)
	assert.Nil(t, res.Driver.Location)
}

func TestApplyUpdate_UnknownDriver(t *testing.T) {
	f := newFixture(t)

	res, err := f.status.ApplyUpdate(context.Background(), "1234567890", "14")
	assert.ErrorIs(t, err, myerrors.ErrDriverNotFound)
	assert.Equal(t, "Driver not registered.", res.Message)
	assert.Nil(t, res.Driver)
	assert.Zero(t, f.repo.writes())
	assert.Empty(t, f.publisher.events)
}

func TestApplyUpdate_InvalidCode(t *testing.T) {
	f := newFixture(t)
	f.seed(t, testPhone)
	ctx := context.Background()

	_, err := f.status.ApplyUpdate(ctx, testPhone, "11")
	require.NoError(t, err)
	before, err := f.repo.GetByPhone(ctx, testPhone)
	require.NoError(t, err)

	for _, code := range []string{"??", "", "16", "1O", "busy"} {
		res, err := f.status.ApplyUpdate(ctx, testPhone, code)
		assert.ErrorIs(t, err, myerrors.ErrInvalidCode, code)
		assert.Equal(t, "Invalid Code.", res.Message)
		require.NotNil(t, res.Driver)
		assert.Equal(t, before.Status, res.Driver.Status)
	}

	after, err := f.repo.GetByPhone(ctx, testPhone)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, 1, f.repo.writes())
}

func TestApplyUpdate_SingleWriteAndEvent(t *testing.T) {
	f := newFixture(t)
	f.seed(t, testPhone)

	res, err := f.status.ApplyUpdate(context.Background(), testPhone, " 14 ")
	require.NoError(t, err)
	assert.Equal(t, testNow, res.Driver.LastUpdated)
	assert.Equal(t, 1, f.repo.writes())

	require.Len(t, f.publisher.events, 1)
	ev := f.publisher.events[0]
	assert.Equal(t, "driver-"+testPhone, ev.DriverID)
	assert.Equal(t, "AVAILABLE", ev.Status)
	require.NotNil(t, ev.Location)
	assert.Equal(t, "Library", *ev.Location)
	assert.Equal(t, testNow, ev.Timestamp)
}

func TestApplyUpdate_PublisherFailureIgnored(t *testing.T) {
	f := newFixture(t)
	f.seed(t, testPhone)
	f.publisher.err = errBoom

	res, err := f.status.ApplyUpdate(context.Background(), testPhone, "10")
	require.NoError(t, err)
	assert.Equal(t, "Updated: Main Gate", res.Message)
}

func TestApplyUpdate_StoreFailure(t *testing.T) {
	f := newFixture(t)
	f.seed(t, testPhone)
	f.repo.failWrites = errBoom

	_, err := f.status.ApplyUpdate(context.Background(), testPhone, "10")
	assert.ErrorIs(t, err, errBoom)
	assert.Empty(t, f.publisher.events)
}

func TestApplyUpdate_InjectedCodeMap(t *testing.T) {
	codes, err := codemap.New(codemap.Table{
		Offline:   "X",
		Busy:      "B",
		Locations: []codemap.Entry{{Code: "A1", Name: "Computer Centre"}},
	})
	require.NoError(t, err)
	f := newFixtureWithCodes(t, codes)
	f.seed(t, testPhone)
	ctx := context.Background()

	res, err := f.status.ApplyUpdate(ctx, testPhone, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Updated: Computer Centre", res.Message)

	_, err = f.status.ApplyUpdate(ctx, testPhone, "14")
	assert.ErrorIs(t, err, myerrors.ErrInvalidCode)

	res, err = f.status.ApplyUpdate(ctx, testPhone, "X")
	require.NoError(t, err)
	assert.Equal(t, model.StatusOffline, res.Driver.Status)
}

func TestScenario_RegisterThenUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.drivers.Register(ctx, validRegistration(testPhone))
	require.NoError(t, err)

	res, err := f.status.ApplyUpdate(ctx, testPhone, "14")
	require.NoError(t, err)
	assert.Equal(t, "Updated: Library", res.Message)
	assert.Equal(t, model.StatusAvailable, res.Driver.Status)
	assert.Equal(t, "Library", res.Driver.LocationName())

	res, err = f.status.ApplyUpdate(ctx, testPhone, "0")
	require.NoError(t, err)
	assert.Equal(t, "You are Offline.", res.Message)
	assert.Nil(t, res.Driver.Location)
}

func TestCodes(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, codemap.Default().Entries(), f.status.Codes())
}
