package branch_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/cctvdash/internal/branch"
)

func TestService_Resolve(t *testing.T) {
	type testCase struct {
		name      string
		query     string
		setupMock func(m *branch.MockRepository)
		want      string
		wantErr   bool
	}

	bangNa := &branch.Branch{ID: uuid.New(), Code: "B001", Name: "Bang Na"}

	tests := []testCase{
		{
			name:  "ExactCode",
			query: " b001 ",
			setupMock: func(m *branch.MockRepository) {
				m.EXPECT().GetByCode(gomock.Any(), "b001").Return(bangNa, nil)
			},
			want: "B001",
		},
		{
			name:  "UniqueNameMatch",
			query: "bang",
			setupMock: func(m *branch.MockRepository) {
				m.EXPECT().GetByCode(gomock.Any(), "bang").Return(nil, branch.ErrNotFound)
				m.EXPECT().Search(gomock.Any(), "bang", 2).Return([]*branch.Branch{bangNa}, nil)
			},
			want: "B001",
		},
		{
			name:  "AmbiguousPassesThrough",
			query: "Rama",
			setupMock: func(m *branch.MockRepository) {
				m.EXPECT().GetByCode(gomock.Any(), "Rama").Return(nil, branch.ErrNotFound)
				m.EXPECT().Search(gomock.Any(), "Rama", 2).Return([]*branch.Branch{
					{Code: "B010", Name: "Rama 2"},
					{Code: "B011", Name: "Rama 9"},
				}, nil)
			},
			want: "Rama",
		},
		{
			name:  "UnknownPassesThrough",
			query: "X99",
			setupMock: func(m *branch.MockRepository) {
				m.EXPECT().GetByCode(gomock.Any(), "X99").Return(nil, branch.ErrNotFound)
				m.EXPECT().Search(gomock.Any(), "X99", 2).Return(nil, nil)
			},
			want: "X99",
		},
		{
			name:  "Empty",
			query: "   ",
			want:  "",
		},
		{
			name:  "RepoError",
			query: "B001",
			setupMock: func(m *branch.MockRepository) {
				m.EXPECT().GetByCode(gomock.Any(), "B001").Return(nil, errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := branch.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := branch.NewService(repo)
			got, err := svc.Resolve(context.Background(), tt.query)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Import(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := branch.NewMockRepository(ctrl)
	tx := branch.NewMockImportTx(ctrl)

	repo.EXPECT().BeginImport(gomock.Any()).Return(tx, nil)
	tx.EXPECT().FindByCodes(gomock.Any(), []string{"B001", "B002", "B003"}).Return(map[string]*branch.Branch{
		"B001": {Code: "B001", Name: "Bang Na"},
		"B002": {Code: "B002", Name: "Rama 9 (old)"},
	}, nil)

	var saved []branch.Branch
	tx.EXPECT().Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, b *branch.Branch) error {
			saved = append(saved, *b)
			return nil
		}).Times(2)
	tx.EXPECT().Commit().Return(nil)
	tx.EXPECT().Rollback().Return(nil)

	res, err := branch.NewService(repo).Import(context.Background(), []branch.ImportParams{
		{Code: "B001", Name: "Bang Na"},
		{Code: "B002", Name: "Rama 9"},
		{Code: " B003 ", Name: "Chiang Mai"},
		{Code: "B003", Name: "Chiang Mai Airport"},
	})
	require.NoError(t, err)

	assert.Equal(t, &branch.ImportResult{Created: 1, Updated: 1, Unchanged: 1}, res)
	require.Len(t, saved, 2)
	assert.Equal(t, "Rama 9", saved[0].Name)
	assert.Equal(t, branch.Branch{Code: "B003", Name: "Chiang Mai Airport"}, saved[1])
}

func TestService_ImportRejectsMissingCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, err := branch.NewService(branch.NewMockRepository(ctrl)).Import(context.Background(), []branch.ImportParams{
		{Code: "B001", Name: "Bang Na"},
		{Code: "", Name: "Nameless"},
	})
	assert.ErrorContains(t, err, "row 2")
}

func TestService_ImportRollsBackOnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := branch.NewMockRepository(ctrl)
	tx := branch.NewMockImportTx(ctrl)

	repo.EXPECT().BeginImport(gomock.Any()).Return(tx, nil)
	tx.EXPECT().FindByCodes(gomock.Any(), gomock.Any()).Return(map[string]*branch.Branch{}, nil)
	tx.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(errors.New("constraint"))
	tx.EXPECT().Rollback().Return(nil)

	_, err := branch.NewService(repo).Import(context.Background(), []branch.ImportParams{{Code: "B001", Name: "Bang Na"}})
	assert.Error(t, err)
}

func TestPassthrough(t *testing.T) {
	got, err := branch.Passthrough{}.Resolve(context.Background(), "  Bang Na ")
	require.NoError(t, err)
	assert.Equal(t, "Bang Na", got)
}
