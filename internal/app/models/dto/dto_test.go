package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/sectionhub/internal/app/models"
)

func TestDate_JSONRoundTrip(t *testing.T) {
	var payload struct {
		When *Date `json:"when"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"when":"2024-02-29"}`), &payload))
	require.NotNil(t, payload.When)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), payload.When.Time())

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"when":"2024-02-29"}`, string(out))
}

func TestDate_Invalid(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"29/02/2024"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`20240229`), &d))
	assert.NoError(t, json.Unmarshal([]byte(`null`), &d))
}

func TestNewDate_DropsTimeOfDay(t *testing.T) {
	d := NewDate(time.Date(2023, 5, 6, 23, 59, 0, 0, time.FixedZone("X", 3600)))
	assert.Equal(t, "2023-05-06", d.String())
}

func TestNewSectionResponse_DerivedFields(t *testing.T) {
	section := &models.Section{ID: 1, Name: "A", MaxCapacity: 3}

	tests := []struct {
		count     int
		full      bool
		available int
	}{
		{0, false, 3},
		{2, false, 1},
		{3, true, 0},
		{5, true, 0},
	}
	for _, tt := range tests {
		resp := NewSectionResponse(section, tt.count)
		assert.Equal(t, tt.count, resp.CurrentEnrollment)
		assert.Equal(t, tt.full, resp.IsFull, "count %d", tt.count)
		assert.Equal(t, tt.available, resp.AvailableSpots, "count %d", tt.count)
	}
}

func TestNewSectionDetailResponse_CountsStudents(t *testing.T) {
	section := &models.Section{ID: 1, Name: "A", MaxCapacity: 2}
	resp := NewSectionDetailResponse(section, []models.SectionEnrollment{
		{StudentID: 1, FirstName: "A", LastName: "B", Email: "a@b.c", EnrollmentDate: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
	})

	assert.Equal(t, 1, resp.CurrentEnrollment)
	assert.Equal(t, 1, resp.AvailableSpots)
	require.Len(t, resp.Students, 1)
	assert.Equal(t, "2024-01-02", resp.Students[0].EnrollmentDate.String())
}

func TestNewUserResponse_HidesHash(t *testing.T) {
	user := &models.User{ID: 4, Email: "u@example.com", HashedPassword: "secret-hash", Role: models.Role{ID: 2, Name: models.RoleUser}}
	out, err := json.Marshal(NewUserResponse(user))
	require.NoError(t, err)
	assert.NotContains(t, string(out), "secret-hash")
	assert.Contains(t, string(out), `"name":"user"`)
}

func TestNewPaginatedResponse_EmptyItems(t *testing.T) {
	page := NewPaginatedResponse[StudentResponse](nil, 0, ListQuery{Offset: 0, Limit: 10})
	out, err := json.Marshal(page)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"total":0,"offset":0,"limit":10}`, string(out))
}

func TestUpdateSectionRequest_DescriptionPresence(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantSet  bool
		wantNull bool
		want     string
	}{
		{name: "omitted", body: `{"name":"Logic"}`},
		{name: "explicit null", body: `{"description":null}`, wantSet: true, wantNull: true},
		{name: "value", body: `{"description":"Intro"}`, wantSet: true, want: "Intro"},
		{name: "empty string", body: `{"description":""}`, wantSet: true, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req UpdateSectionRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.wantSet, req.Description.Set)
			assert.Equal(t, tt.wantNull, req.Description.IsNull())
			if tt.wantSet && !tt.wantNull {
				require.NotNil(t, req.Description.Value)
				assert.Equal(t, tt.want, *req.Description.Value)
			}
		})
	}

	var req UpdateSectionRequest
	assert.Error(t, json.Unmarshal([]byte(`{"description":42}`), &req))
}
