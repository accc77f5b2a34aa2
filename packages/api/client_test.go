package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/studyhub/packages/auth/token"
	studyhttp "github.com/abdul-hamid-achik/studyhub/packages/http"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *token.MemoryStore) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	tokens := token.NewMemoryStore()
	hc := studyhttp.NewClient(server.URL,
		studyhttp.WithTokenSource(tokens),
		studyhttp.WithNavigator(studyhttp.NavigatorFunc(func(string) {})),
	)
	return New(hc, tokens), tokens
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestSignIn(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/signin", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))

		switch creds.Email {
		case "ada@example.com":
			writeJSON(w, 200, map[string]string{"Message": "Login successful", "token": "jwt-ada"})
		case "ghost@example.com":
			writeJSON(w, 200, map[string]string{"Message": "User not found"})
		default:
			writeJSON(w, 200, map[string]string{"error": "Invalid password"})
		}
	})

	ctx := context.Background()

	t.Run("success stores token", func(t *testing.T) {
		client, tokens := newTestClient(t, mux)
		msg, err := client.SignIn(ctx, "ada@example.com", "pw")
		require.NoError(t, err)
		assert.Equal(t, "Login successful", msg)

		tok, err := tokens.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, "jwt-ada", tok)

		signedIn, err := client.SignedIn(ctx)
		require.NoError(t, err)
		assert.True(t, signedIn)
	})

	t.Run("unknown user", func(t *testing.T) {
		client, tokens := newTestClient(t, mux)
		_, err := client.SignIn(ctx, "ghost@example.com", "pw")
		require.Error(t, err)
		assert.True(t, IsAPIError(err))
		assert.Contains(t, err.Error(), "User not found")

		_, getErr := tokens.Get(ctx)
		assert.ErrorIs(t, getErr, token.ErrNotFound)
	})

	t.Run("error body leaves existing token", func(t *testing.T) {
		client, tokens := newTestClient(t, mux)
		require.NoError(t, tokens.Set(ctx, "previous"))

		_, err := client.SignIn(ctx, "ada@other.com", "bad")
		require.Error(t, err)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "Invalid password", apiErr.Message)
		assert.Equal(t, PathSignIn, apiErr.Path)

		tok, getErr := tokens.Get(ctx)
		require.NoError(t, getErr)
		assert.Equal(t, "previous", tok)
	})
}

func TestSignUpAndSignOut(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/signup", func(w http.ResponseWriter, r *http.Request) {
		var reg Registration
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reg))
		if reg.Email == "taken@example.com" {
			writeJSON(w, 200, map[string]string{"error": "User already exists"})
			return
		}
		assert.Equal(t, "Ada", reg.Name)
		writeJSON(w, 200, map[string]string{"message": "User registered successfully", "token": "jwt-new"})
	})

	ctx := context.Background()
	client, tokens := newTestClient(t, mux)

	_, err := client.SignUp(ctx, "Ada", "taken@example.com", "pw")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "User already exists")

	msg, err := client.SignUp(ctx, "Ada", "ada@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "User registered successfully", msg)

	tok, err := tokens.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jwt-new", tok)

	require.NoError(t, client.SignOut(ctx))
	require.NoError(t, client.SignOut(ctx))
	signedIn, err := client.SignedIn(ctx)
	require.NoError(t, err)
	assert.False(t, signedIn)
}

func TestProfile_UsesStoredToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user/profile", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer jwt-ada" {
			writeJSON(w, 401, map[string]string{"detail": "Not authenticated"})
			return
		}
		writeJSON(w, 200, map[string]any{"user": map[string]string{"name": "Ada", "email": "ada@example.com"}})
	})

	ctx := context.Background()
	client, tokens := newTestClient(t, mux)

	_, err := client.Profile(ctx)
	require.Error(t, err)
	assert.True(t, studyhttp.IsUnauthorized(err))

	require.NoError(t, tokens.Set(ctx, "jwt-ada"))
	profile, err := client.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.Name)
	assert.Equal(t, "ada@example.com", profile.Email)
}

func TestProfile_UnauthorizedClearsToken(t *testing.T) {
	client, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 401, map[string]string{"detail": "expired"})
	}))
	ctx := context.Background()
	require.NoError(t, tokens.Set(ctx, "expired"))

	_, err := client.Profile(ctx)
	require.Error(t, err)

	signedIn, err := client.SignedIn(ctx)
	require.NoError(t, err)
	assert.False(t, signedIn)
}

func TestUsers(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case "GET":
			writeJSON(w, 200, []map[string]any{
				{"id": 1, "email": "ada@example.com", "name": "Ada", "created_at": "2024-05-01T10:00:00.123456"},
				{"id": 2, "email": "alan@example.com", "name": "Alan", "created_at": "2024-05-02T10:00:00"},
			})
		case "POST":
			var in CreateUser
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			if in.Email == "ada@example.com" {
				writeJSON(w, 500, map[string]string{"detail": "400: User already exists"})
				return
			}
			writeJSON(w, 200, map[string]any{"id": 3, "email": in.Email, "name": in.Name, "created_at": "2024-05-03T10:00:00"})
		}
	})

	ctx := context.Background()
	client, _ := newTestClient(t, mux)

	users, err := client.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, 1, users[0].ID)
	assert.Equal(t, "Alan", users[1].Name)

	created, err := client.CreateUser(ctx, CreateUser{Email: "grace@example.com", Name: "Grace"})
	require.NoError(t, err)
	assert.Equal(t, 3, created.ID)

	_, err = client.CreateUser(ctx, CreateUser{Email: "ada@example.com", Name: "Ada"})
	require.Error(t, err)
	assert.True(t, studyhttp.IsHTTPStatus(err, 500))
}

func TestListGroups(t *testing.T) {
	ctx := context.Background()

	t.Run("groups", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/groups/", r.URL.Path)
			writeJSON(w, 200, map[string]any{"groups": []map[string]any{
				{"id": "g1", "groupName": "Calculus", "subject": "Math", "maxMembers": 5, "skillLevel": "beginner", "meetingTime": nil},
			}})
		}))

		groups, err := client.ListGroups(ctx)
		require.NoError(t, err)
		require.Len(t, groups, 1)
		assert.Equal(t, "g1", groups[0].ID)
		assert.Equal(t, 5, groups[0].MaxMembers)
		assert.Empty(t, groups[0].MeetingTime)
	})

	t.Run("database unavailable", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 200, map[string]any{"groups": []any{}, "error": "Database temporarily unavailable"})
		}))

		_, err := client.ListGroups(ctx)
		require.Error(t, err)
		assert.True(t, IsAPIError(err))
		assert.Contains(t, err.Error(), "Database temporarily unavailable")
	})
}

func TestMyGroups(t *testing.T) {
	client, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer jwt", r.Header.Get("Authorization"))
		writeJSON(w, 200, []map[string]any{
			{"_id": "665f", "groupName": "Physics", "subject": "Science", "creatorId": "7"},
		})
	}))
	ctx := context.Background()
	require.NoError(t, tokens.Set(ctx, "jwt"))

	groups, err := client.MyGroups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "665f", groups[0].ID)
	assert.Equal(t, "7", groups[0].CreatorID)
}

func TestCreateGroup(t *testing.T) {
	var hits atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"groupName":"Calculus","subject":"Math","maxMembers":4,"skillLevel":"advanced"}`, string(body))
		writeJSON(w, 200, map[string]any{
			"message": "Group created successfully",
			"group":   map[string]any{"id": "g9", "groupName": "Calculus", "subject": "Math", "maxMembers": 4, "skillLevel": "advanced"},
			"id":      "g9",
		})
	}))
	ctx := context.Background()

	group, err := client.CreateGroup(ctx, GroupInput{GroupName: "Calculus", Subject: "Math", MaxMembers: 4, SkillLevel: "advanced"})
	require.NoError(t, err)
	assert.Equal(t, "g9", group.ID)
	assert.Equal(t, int32(1), hits.Load())

	_, err = client.CreateGroup(ctx, GroupInput{GroupName: "Calculus", Subject: "Math", SkillLevel: "expert"})
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, int32(1), hits.Load())
}

func TestCreateGroup_MissingGroupInResponse(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"message": "Group created successfully", "group": nil, "id": "g10"})
	}))

	group, err := client.CreateGroup(context.Background(), GroupInput{GroupName: "Chem", Subject: "Science"})
	require.NoError(t, err)
	assert.Equal(t, "g10", group.ID)
	assert.Equal(t, "Chem", group.GroupName)
}

func TestValidateGroup(t *testing.T) {
	tests := []struct {
		name    string
		in      GroupInput
		wantErr bool
	}{
		{"minimal", GroupInput{GroupName: "A", Subject: "B"}, false},
		{"full", GroupInput{GroupName: "A", Subject: "B", MaxMembers: 10, SkillLevel: "intermediate", Location: "Library"}, false},
		{"missing name", GroupInput{Subject: "B"}, true},
		{"missing subject", GroupInput{GroupName: "A"}, true},
		{"negative members", GroupInput{GroupName: "A", Subject: "B", MaxMembers: -1}, true},
		{"too many members", GroupInput{GroupName: "A", Subject: "B", MaxMembers: 101}, true},
		{"unknown skill level", GroupInput{GroupName: "A", Subject: "B", SkillLevel: "guru"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGroup(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]string{"Message": "Hello user"})
	}))

	msg, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Hello user", msg)
}
