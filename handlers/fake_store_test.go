package handlers

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"supapass/models"
	"supapass/store"
)

// fakeStore is an in-memory Store for handler tests.
type fakeStore struct {
	mu            sync.Mutex
	passes        map[string]models.Pass
	devices       map[string]models.Device
	registrations []models.Registration
	users         map[string]models.User

	failWith error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		passes:  make(map[string]models.Pass),
		devices: make(map[string]models.Device),
		users:   make(map[string]models.User),
	}
}

var _ store.Store = (*fakeStore)(nil)

func (f *fakeStore) addPass(pass models.Pass) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.passes[pass.ID] = pass
}

func (f *fakeStore) addUser(user models.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
}

func (f *fakeStore) deviceCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.devices)
}

func (f *fakeStore) registrationCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.registrations)
}

func (f *fakeStore) PassBySerialAndToken(_ context.Context, serialNumber, authToken string) (models.Pass, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return models.Pass{}, f.failWith
	}
	for _, pass := range f.passes {
		if pass.SerialNumber == serialNumber && pass.AuthenticationToken == authToken {
			return pass, nil
		}
	}
	return models.Pass{}, store.ErrNotFound
}

func (f *fakeStore) PassBySerialTypeToken(_ context.Context, serialNumber, passTypeIdentifier, authToken string) (models.Pass, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return models.Pass{}, f.failWith
	}
	for _, pass := range f.passes {
		if pass.SerialNumber == serialNumber &&
			pass.PassTypeIdentifier == passTypeIdentifier &&
			pass.AuthenticationToken == authToken {
			return pass, nil
		}
	}
	return models.Pass{}, store.ErrNotFound
}

func (f *fakeStore) PassByID(_ context.Context, id string) (models.Pass, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return models.Pass{}, f.failWith
	}
	pass, ok := f.passes[id]
	if !ok {
		return models.Pass{}, store.ErrNotFound
	}
	return pass, nil
}

func (f *fakeStore) PassByUser(_ context.Context, userID string) (models.Pass, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, pass := range f.passes {
		if pass.UserID == userID {
			return pass, nil
		}
	}
	return models.Pass{}, store.ErrNotFound
}

func (f *fakeStore) UpsertPassForUser(_ context.Context, userID, passTypeIdentifier string, stats models.UserStats, isCoreMember bool) (models.Pass, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return models.Pass{}, f.failWith
	}
	for id, pass := range f.passes {
		if pass.UserID == userID && pass.PassTypeIdentifier == passTypeIdentifier {
			pass.PullRequestsCount = stats.PRs
			pass.MergedPullRequestsCount = stats.Merged
			pass.IssuesOpenedCount = stats.Issues
			pass.TotalContributionsCount = stats.Total
			pass.IsCoreMember = isCoreMember
			f.passes[id] = pass
			return pass, nil
		}
	}
	pass := models.Pass{
		ID:                      uuid.NewString(),
		UserID:                  userID,
		SerialNumber:            uuid.NewString(),
		PassTypeIdentifier:      passTypeIdentifier,
		AuthenticationToken:     uuid.NewString(),
		PullRequestsCount:       stats.PRs,
		MergedPullRequestsCount: stats.Merged,
		IssuesOpenedCount:       stats.Issues,
		TotalContributionsCount: stats.Total,
		IsCoreMember:            isCoreMember,
	}
	f.passes[pass.ID] = pass
	return pass, nil
}

func (f *fakeStore) SetPassActive(_ context.Context, passID string, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	pass, ok := f.passes[passID]
	if !ok {
		return store.ErrNotFound
	}
	pass.IsActive = active
	f.passes[passID] = pass
	return nil
}

func (f *fakeStore) UpdatePassCounts(_ context.Context, passID string, stats models.UserStats, isCoreMember bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	pass, ok := f.passes[passID]
	if !ok {
		return store.ErrNotFound
	}
	pass.PullRequestsCount = stats.PRs
	pass.MergedPullRequestsCount = stats.Merged
	pass.IssuesOpenedCount = stats.Issues
	pass.TotalContributionsCount = stats.Total
	pass.IsCoreMember = isCoreMember
	f.passes[passID] = pass
	return nil
}

func (f *fakeStore) ActivePasses(_ context.Context) ([]models.Pass, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var active []models.Pass
	for _, pass := range f.passes {
		if pass.IsActive {
			active = append(active, pass)
		}
	}
	return active, nil
}

func (f *fakeStore) DeviceByLibraryID(_ context.Context, deviceLibraryIdentifier string) (models.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, device := range f.devices {
		if device.DeviceLibraryIdentifier == deviceLibraryIdentifier {
			return device, nil
		}
	}
	return models.Device{}, store.ErrNotFound
}

func (f *fakeStore) RegisterDevice(_ context.Context, deviceLibraryIdentifier, pushToken, passID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}

	var device *models.Device
	for id := range f.devices {
		d := f.devices[id]
		if d.DeviceLibraryIdentifier == deviceLibraryIdentifier {
			device = &d
			break
		}
	}
	if device == nil {
		d := models.Device{
			ID:                      uuid.NewString(),
			DeviceLibraryIdentifier: deviceLibraryIdentifier,
			PushToken:               pushToken,
		}
		f.devices[d.ID] = d
		device = &d
	} else if device.PushToken != pushToken {
		device.PushToken = pushToken
		f.devices[device.ID] = *device
	}

	for _, registration := range f.registrations {
		if registration.DeviceID == device.ID && registration.PassID == passID {
			return nil
		}
	}
	f.registrations = append(f.registrations, models.Registration{
		DeviceID: device.ID,
		PassID:   passID,
	})
	return nil
}

func (f *fakeStore) UnregisterDevice(_ context.Context, deviceID, passID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	kept := f.registrations[:0]
	for _, registration := range f.registrations {
		if registration.DeviceID == deviceID && registration.PassID == passID {
			continue
		}
		kept = append(kept, registration)
	}
	f.registrations = kept

	for _, registration := range f.registrations {
		if registration.DeviceID == deviceID {
			return nil
		}
	}
	delete(f.devices, deviceID)
	return nil
}

func (f *fakeStore) SerialsForDevice(_ context.Context, deviceID, passTypeIdentifier string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var serials []string
	for _, registration := range f.registrations {
		if registration.DeviceID != deviceID {
			continue
		}
		pass, ok := f.passes[registration.PassID]
		if !ok || pass.PassTypeIdentifier != passTypeIdentifier || !pass.IsActive {
			continue
		}
		serials = append(serials, pass.SerialNumber)
	}
	return serials, nil
}

func (f *fakeStore) UserByID(_ context.Context, id string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return user, nil
}

func (f *fakeStore) UserByName(_ context.Context, userName string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.UserName == userName {
			return user, nil
		}
	}
	return models.User{}, store.ErrNotFound
}

var errStoreDown = errors.New("store down")
