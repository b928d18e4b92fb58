package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/visittracker/internal/common"
)

func TestVisit_UnmarshalJSON_IsLockedDefault(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"absent", `{"id":"v1"}`, true},
		{"true", `{"id":"v1","isLocked":true}`, true},
		{"false", `{"id":"v1","isLocked":false}`, false},
		{"null", `{"id":"v1","isLocked":null}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v Visit
			require.NoError(t, json.Unmarshal([]byte(tt.in), &v))
			assert.Equal(t, "v1", v.ID)
			assert.Equal(t, tt.want, v.IsLocked)
		})
	}
}

func TestVisit_UnmarshalJSON_Fields(t *testing.T) {
	in := `{"id":"v1","objectId":"o1","visitType":"planned","comment":"ok",
		"photos":["http://x/1.jpg"],"taskCompleted":true,"taskRecipient":"ivan"}`
	var v Visit
	require.NoError(t, json.Unmarshal([]byte(in), &v))

	assert.Equal(t, "o1", v.ObjectID)
	assert.Equal(t, VisitPlanned, v.VisitType)
	assert.Equal(t, []string{"http://x/1.jpg"}, v.Photos)
	require.NotNil(t, v.TaskCompleted)
	assert.True(t, *v.TaskCompleted)
	require.NotNil(t, v.TaskRecipient)
	assert.Equal(t, "ivan", *v.TaskRecipient)
}

func TestObject_UnmarshalJSON_Presence(t *testing.T) {
	tests := []struct {
		name          string
		in            string
		wantName      string
		nameAbsent    bool
		addressAbsent bool
	}{
		{"both", `{"id":"1","name":"Depot","address":"Main st"}`, "Depot", false, false},
		{"address absent", `{"id":"1","name":"Depot"}`, "Depot", false, true},
		{"name null", `{"id":"1","name":null,"address":""}`, "", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var o Object
			require.NoError(t, json.Unmarshal([]byte(tt.in), &o))
			assert.Equal(t, "1", o.ID)
			assert.Equal(t, tt.wantName, o.Name)
			assert.Equal(t, tt.nameAbsent, o.NameAbsent)
			assert.Equal(t, tt.addressAbsent, o.AddressAbsent)
		})
	}
}

func TestObject_UnmarshalJSON_Visits(t *testing.T) {
	var o Object
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","visits":[{"id":"v1"}]}`), &o))
	require.Len(t, o.Visits, 1)
	assert.True(t, o.Visits[0].IsLocked)
}

func TestOverrideIfSet(t *testing.T) {
	dst := StringPtr("old")
	OverrideIfSet(&dst, nil)
	assert.Equal(t, "old", *dst)

	src := StringPtr("new")
	OverrideIfSet(&dst, src)
	assert.Equal(t, "new", *dst)
	*src = "changed"
	assert.Equal(t, "new", *dst)
}

func TestObject_CloneIsDeep(t *testing.T) {
	o := Object{
		ID:          "o1",
		Description: StringPtr("d"),
		Visits: []Visit{{
			ID:            "v1",
			Photos:        []string{"a"},
			TaskCompleted: BoolPtr(false),
		}},
	}
	c := o.Clone()
	require.Empty(t, cmp.Diff(o, c))

	*c.Description = "changed"
	c.Visits[0].Photos[0] = "b"
	*c.Visits[0].TaskCompleted = true

	assert.Equal(t, "d", *o.Description)
	assert.Equal(t, "a", o.Visits[0].Photos[0])
	assert.False(t, *o.Visits[0].TaskCompleted)
}

func TestApplyVisitUpdate_Locked(t *testing.T) {
	existing := Visit{
		ID:        "v1",
		ObjectID:  "o1",
		VisitDate: "2024-01-01",
		VisitType: VisitPlanned,
		Comment:   "original",
		IsLocked:  true,
		Photos:    []string{"p1"},
	}
	incoming := Visit{
		ID:              "v1",
		ObjectID:        "o1",
		VisitDate:       "2030-01-01",
		VisitType:       VisitUnplanned,
		Comment:         "rewritten",
		IsLocked:        false,
		Photos:          []string{"p2"},
		CreatedByRole:   StringPtr("director"),
		TaskCompleted:   BoolPtr(true),
		TaskCompletedBy: StringPtr("petrov"),
		TaskCompletedAt: StringPtr("2024-02-02"),
		TaskDescription: StringPtr("new task"),
		Deleted:         true,
	}

	got := ApplyVisitUpdate(existing, incoming)

	assert.Equal(t, "original", got.Comment)
	assert.Equal(t, "2024-01-01", got.VisitDate)
	assert.Equal(t, VisitPlanned, got.VisitType)
	assert.True(t, got.IsLocked)
	assert.Equal(t, []string{"p1"}, got.Photos)
	assert.Nil(t, got.TaskDescription)

	assert.True(t, *got.TaskCompleted)
	assert.Equal(t, "petrov", *got.TaskCompletedBy)
	assert.Equal(t, "2024-02-02", *got.TaskCompletedAt)
	assert.Equal(t, "director", *got.CreatedByRole)
	assert.True(t, got.Deleted)
}

func TestApplyVisitUpdate_Unlocked(t *testing.T) {
	existing := Visit{ID: "v1", ObjectID: "o1", Comment: "draft", Photos: []string{"p1"}}
	incoming := Visit{ID: "v1", ObjectID: "o2", Comment: "final", IsLocked: true, Photos: []string{"p2"}}

	got := ApplyVisitUpdate(existing, incoming)

	assert.Equal(t, "final", got.Comment)
	assert.True(t, got.IsLocked)
	assert.Equal(t, "o1", got.ObjectID)
	assert.Equal(t, []string{"p1"}, got.Photos)
}

func TestSnapshot_Live(t *testing.T) {
	s := &Snapshot{
		Objects: []Object{
			{ID: "o1", Visits: []Visit{{ID: "v1"}, {ID: "v2", Deleted: true}}},
			{ID: "o2", Deleted: true},
		},
		Users: []User{{ID: "u1", Username: "a"}},
	}

	live := s.Live()

	require.Len(t, live.Objects, 1)
	assert.Equal(t, "o1", live.Objects[0].ID)
	require.Len(t, live.Objects[0].Visits, 1)
	assert.Equal(t, "v1", live.Objects[0].Visits[0].ID)
	assert.Len(t, live.Users, 1)
	assert.Len(t, s.Objects[0].Visits, 2)
}

func TestValidatePayload(t *testing.T) {
	tests := []struct {
		name    string
		objects []Object
		users   []User
		wantErr bool
	}{
		{name: "empty", wantErr: false},
		{
			name:    "valid",
			objects: []Object{{ID: "o1", Visits: []Visit{{ID: "v1", VisitType: VisitPlanned}}}},
			users:   []User{{Username: "a", Role: RoleDirector}},
		},
		{name: "object without id", objects: []Object{{Name: "x"}}, wantErr: true},
		{name: "visit without id", objects: []Object{{ID: "o1", Visits: []Visit{{}}}}, wantErr: true},
		{name: "unknown visit type", objects: []Object{{ID: "o1", Visits: []Visit{{ID: "v", VisitType: "urgent"}}}}, wantErr: true},
		{name: "user without username", users: []User{{Role: RoleTechnician}}, wantErr: true},
		{name: "unknown role", users: []User{{Username: "a", Role: "admin"}}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePayload(tt.objects, tt.users)
			if tt.wantErr {
				assert.True(t, errors.Is(err, common.ErrInvalidPayload))
				return
			}
			assert.NoError(t, err)
		})
	}
}
