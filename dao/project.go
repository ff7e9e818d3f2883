package dao

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnasbury91/reachh/stores/gdb/project"
)

// GetLatestProject 取用户最近创建的项目
func (d *Dao) GetLatestProject(c context.Context, userID string) (*project.Project, error) {
	var p project.Project
	err := d.DB.WithContext(c).
		Table(project.ProjectTableName()).Where("user_id = ?", userID).
		Order("created_at desc").First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (d *Dao) GetProjectByID(c context.Context, id, userID string) (*project.Project, error) {
	var p project.Project
	err := d.DB.WithContext(c).
		Table(project.ProjectTableName()).Where("id = ? and user_id = ?", id, userID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (d *Dao) CreateProject(c context.Context, p *project.Project) error {
	return d.DB.WithContext(c).Table(project.ProjectTableName()).Create(p).Error
}

func (d *Dao) UpdateProject(c context.Context, id, userID string, fields map[string]interface{}) error {
	res := d.DB.WithContext(c).
		Table(project.ProjectTableName()).Where("id = ? and user_id = ?", id, userID).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (d *Dao) ListOpportunities(c context.Context, projectID, status string) ([]project.Opportunity, error) {
	q := d.DB.WithContext(c).
		Table(project.OpportunityTableName()).Where("project_id = ?", projectID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var opps []project.Opportunity
	err := q.Order("found_at desc").Find(&opps).Error
	return opps, err
}

func (d *Dao) GetOpportunityByID(c context.Context, id string) (*project.Opportunity, error) {
	var o project.Opportunity
	err := d.DB.WithContext(c).
		Table(project.OpportunityTableName()).Where("id = ?", id).First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// UpsertOpportunity 以(project_id, reddit_id)去重
func (d *Dao) UpsertOpportunity(c context.Context, o *project.Opportunity) error {
	return d.DB.WithContext(c).
		Table(project.OpportunityTableName()).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "project_id"}, {Name: "reddit_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"url", "title", "body", "subreddit", "score", "num_comments", "status",
			}),
		}).Create(o).Error
}

func (d *Dao) UpdateOpportunityStatus(c context.Context, id string, status project.OpportunityStatus, commentURL string) error {
	fields := map[string]interface{}{"status": status}
	if commentURL != "" {
		fields["comment_url"] = commentURL
	}
	return d.DB.WithContext(c).
		Table(project.OpportunityTableName()).Where("id = ?", id).Updates(fields).Error
}
