package services

import (
	"context"
	"fmt"
	"strings"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const defaultTeamColor = "#0d6efd"

type TeamServiceInterface interface {
	ListTeams(ctx context.Context, filter types.Filter) ([]entities.Team, uint64, error)
	FindTeam(ctx context.Context, id uint64) (*dto.TeamDetailDTO, error)
	CreateTeam(ctx context.Context, principal *authz.Principal, in dto.CreateTeamDTO) (Outcome[*entities.Team], error)
	UpdateTeam(ctx context.Context, principal *authz.Principal, id uint64, patch dto.UpdateTeamDTO) (Outcome[*entities.Team], error)
	DeleteTeam(ctx context.Context, principal *authz.Principal, id uint64) (Outcome[struct{}], error)
	AddMember(ctx context.Context, principal *authz.Principal, teamID uint64, in dto.CreateTeamMemberDTO) (Outcome[*entities.TeamMember], error)
	UpdateMember(ctx context.Context, principal *authz.Principal, teamID, memberID uint64, patch dto.UpdateTeamMemberDTO) (Outcome[*entities.TeamMember], error)
	RemoveMember(ctx context.Context, principal *authz.Principal, teamID, memberID uint64) (Outcome[struct{}], error)
}

type TeamService struct {
	txManager   repositories.TxManagerInterface
	teamRepo    repositories.TeamRepositoryInterface
	memberRepo  repositories.TeamMemberRepositoryInterface
	requestRepo repositories.RequestRepositoryInterface
	audit       ActivityLogServiceInterface
	logger      *zap.Logger
}

func NewTeamService(
	txManager repositories.TxManagerInterface,
	teamRepo repositories.TeamRepositoryInterface,
	memberRepo repositories.TeamMemberRepositoryInterface,
	requestRepo repositories.RequestRepositoryInterface,
	audit ActivityLogServiceInterface,
	logger *zap.Logger,
) TeamServiceInterface {
	return &TeamService{
		txManager:   txManager,
		teamRepo:    teamRepo,
		memberRepo:  memberRepo,
		requestRepo: requestRepo,
		audit:       audit,
		logger:      logger,
	}
}

func (s *TeamService) ListTeams(ctx context.Context, filter types.Filter) ([]entities.Team, uint64, error) {
	return s.teamRepo.List(ctx, filter)
}

// FindTeam - команда с составом и числом заявок на нетерминальных стадиях.
func (s *TeamService) FindTeam(ctx context.Context, id uint64) (*dto.TeamDetailDTO, error) {
	team, err := s.teamRepo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("команда %d: %w", id, err)
	}
	members, err := s.memberRepo.ListByTeam(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	open, err := s.requestRepo.CountOpenByTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.TeamDetailDTO{Team: *team, Members: members, OpenRequests: open}, nil
}

func (s *TeamService) CreateTeam(ctx context.Context, principal *authz.Principal, in dto.CreateTeamDTO) (Outcome[*entities.Team], error) {
	var out Outcome[*entities.Team]
	if err := authz.Require(principal, authz.ManageTeams); err != nil {
		return out, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return out, apperrors.NewValidationError("name", "название команды обязательно")
	}

	team := &entities.Team{
		Name:        name,
		Description: in.Description,
		Color:       in.Color,
		LeaderName:  in.LeaderName,
		LeaderEmail: in.LeaderEmail,
		LeaderPhone: in.LeaderPhone,
		IsActive:    true,
	}
	if team.Color == "" {
		team.Color = defaultTeamColor
	}
	if in.IsActive != nil {
		team.IsActive = *in.IsActive
	}

	created, err := s.teamRepo.Create(ctx, nil, team)
	if err != nil {
		return out, err
	}
	out.Data = created
	out.AuditErr = s.audit.Record(ctx, principal, AuditEntry{
		Action:      entities.ActionCreate,
		EntityType:  entities.EntityTeam,
		EntityID:    created.ID,
		EntityRef:   created.Name,
		Description: fmt.Sprintf("Created team: %s", created.Name),
	})
	return out, nil
}

func (s *TeamService) UpdateTeam(ctx context.Context, principal *authz.Principal, id uint64, patch dto.UpdateTeamDTO) (Outcome[*entities.Team], error) {
	var out Outcome[*entities.Team]
	if err := authz.Require(principal, authz.ManageTeams); err != nil {
		return out, err
	}

	var updated *entities.Team
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		team, err := s.teamRepo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if patch.Has("name") {
			if !patch.Name.Valid || strings.TrimSpace(patch.Name.String) == "" {
				return apperrors.NewValidationError("name", "название команды обязательно")
			}
			team.Name = strings.TrimSpace(patch.Name.String)
		}
		if patch.Has("description") {
			team.Description = patch.Description.Ptr()
		}
		if patch.Has("color") {
			team.Color = defaultTeamColor
			if patch.Color.Valid && patch.Color.String != "" {
				team.Color = patch.Color.String
			}
		}
		if patch.Has("leader_name") {
			team.LeaderName = patch.LeaderName.Ptr()
		}
		if patch.Has("leader_email") {
			team.LeaderEmail = patch.LeaderEmail.Ptr()
		}
		if patch.Has("leader_phone") {
			team.LeaderPhone = patch.LeaderPhone.Ptr()
		}
		if patch.Has("is_active") && patch.IsActive.Valid {
			team.IsActive = patch.IsActive.Bool
		}
		updated, err = s.teamRepo.Update(ctx, tx, team)
		return err
	})
	if err != nil {
		return out, err
	}

	out.Data = updated
	out.AuditErr = s.audit.Record(ctx, principal, AuditEntry{
		Action:      entities.ActionUpdate,
		EntityType:  entities.EntityTeam,
		EntityID:    updated.ID,
		EntityRef:   updated.Name,
		Description: fmt.Sprintf("Updated team: %s", updated.Name),
	})
	return out, nil
}

// DeleteTeam: заявки и оборудование теряют ссылку на команду (ON DELETE SET NULL),
// участники удаляются вместе с командой.
func (s *TeamService) DeleteTeam(ctx context.Context, principal *authz.Principal, id uint64) (Outcome[struct{}], error) {
	var out Outcome[struct{}]
	if err := authz.Require(principal, authz.ManageTeams); err != nil {
		return out, err
	}

	var name string
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		team, err := s.teamRepo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		name = team.Name
		return s.teamRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		return out, err
	}

	out.AuditErr = s.audit.Record(ctx, principal, AuditEntry{
		Action:      entities.ActionDelete,
		EntityType:  entities.EntityTeam,
		EntityID:    id,
		EntityRef:   name,
		Description: fmt.Sprintf("Deleted team: %s", name),
	})
	return out, nil
}

func (s *TeamService) AddMember(ctx context.Context, principal *authz.Principal, teamID uint64, in dto.CreateTeamMemberDTO) (Outcome[*entities.TeamMember], error) {
	var out Outcome[*entities.TeamMember]
	if err := authz.Require(principal, authz.ManageTeams); err != nil {
		return out, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return out, apperrors.NewValidationError("name", "имя участника обязательно")
	}

	member := &entities.TeamMember{
		TeamID:   teamID,
		Name:     name,
		Email:    in.Email,
		Phone:    in.Phone,
		Role:     strings.TrimSpace(in.Role),
		IsActive: true,
	}
	if member.Role == "" {
		member.Role = entities.DefaultMemberRole
	}
	if in.IsActive != nil {
		member.IsActive = *in.IsActive
	}

	var (
		team    *entities.Team
		created *entities.TeamMember
	)
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		team, err = s.teamRepo.FindByID(ctx, tx, teamID)
		if err != nil {
			return fmt.Errorf("команда %d: %w", teamID, err)
		}
		created, err = s.memberRepo.Create(ctx, tx, member)
		return err
	})
	if err != nil {
		return out, err
	}

	out.Data = created
	out.AuditErr = s.audit.Record(ctx, principal, AuditEntry{
		Action:      entities.ActionCreate,
		EntityType:  entities.EntityMember,
		EntityID:    created.ID,
		EntityRef:   created.Name,
		Description: fmt.Sprintf("Added member %s to team %s", created.Name, team.Name),
	})
	return out, nil
}

func (s *TeamService) UpdateMember(ctx context.Context, principal *authz.Principal, teamID, memberID uint64, patch dto.UpdateTeamMemberDTO) (Outcome[*entities.TeamMember], error) {
	var out Outcome[*entities.TeamMember]
	if err := authz.Require(principal, authz.ManageTeams); err != nil {
		return out, err
	}

	var updated *entities.TeamMember
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		member, err := s.memberRepo.FindByID(ctx, tx, teamID, memberID)
		if err != nil {
			return fmt.Errorf("участник %d команды %d: %w", memberID, teamID, err)
		}
		if patch.Has("name") {
			if !patch.Name.Valid || strings.TrimSpace(patch.Name.String) == "" {
				return apperrors.NewValidationError("name", "имя участника обязательно")
			}
			member.Name = strings.TrimSpace(patch.Name.String)
		}
		if patch.Has("email") {
			member.Email = patch.Email.Ptr()
		}
		if patch.Has("phone") {
			member.Phone = patch.Phone.Ptr()
		}
		if patch.Has("role") {
			member.Role = entities.DefaultMemberRole
			if patch.Role.Valid && strings.TrimSpace(patch.Role.String) != "" {
				member.Role = strings.TrimSpace(patch.Role.String)
			}
		}
		if patch.Has("is_active") && patch.IsActive.Valid {
			member.IsActive = patch.IsActive.Bool
		}
		updated, err = s.memberRepo.Update(ctx, tx, member)
		return err
	})
	if err != nil {
		return out, err
	}

	out.Data = updated
	out.AuditErr = s.audit.Record(ctx, principal, AuditEntry{
		Action:      entities.ActionUpdate,
		EntityType:  entities.EntityMember,
		EntityID:    updated.ID,
		EntityRef:   updated.Name,
		Description: fmt.Sprintf("Updated member %s", updated.Name),
	})
	return out, nil
}

func (s *TeamService) RemoveMember(ctx context.Context, principal *authz.Principal, teamID, memberID uint64) (Outcome[struct{}], error) {
	var out Outcome[struct{}]
	if err := authz.Require(principal, authz.ManageTeams); err != nil {
		return out, err
	}

	var (
		member *entities.TeamMember
		team   *entities.Team
	)
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		member, err = s.memberRepo.FindByID(ctx, tx, teamID, memberID)
		if err != nil {
			return fmt.Errorf("участник %d команды %d: %w", memberID, teamID, err)
		}
		team, err = s.teamRepo.FindByID(ctx, tx, teamID)
		if err != nil {
			return err
		}
		return s.memberRepo.Delete(ctx, tx, teamID, memberID)
	})
	if err != nil {
		return out, err
	}

	out.AuditErr = s.audit.Record(ctx, principal, AuditEntry{
		Action:      entities.ActionDelete,
		EntityType:  entities.EntityMember,
		EntityID:    memberID,
		EntityRef:   member.Name,
		Description: fmt.Sprintf("Removed member %s from team %s", member.Name, team.Name),
	})
	return out, nil
}
