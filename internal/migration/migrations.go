package migration

// getAllMigrations retorna todas as migrações disponíveis
func getAllMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_users_table",
			Up: `
				CREATE TABLE users (
					id SERIAL PRIMARY KEY,
					username VARCHAR(100) UNIQUE NOT NULL,
					password_hash VARCHAR(255) NOT NULL,
					created_at TIMESTAMP DEFAULT NOW(),
					updated_at TIMESTAMP DEFAULT NOW()
				);
			`,
			Down: `
				DROP TABLE IF EXISTS users;
			`,
		},
		{
			Version: 2,
			Name:    "create_projects_table",
			Up: `
				-- Obras e a estimativa gerada na criação (ou no último recálculo)
				CREATE TABLE projects (
					id VARCHAR(36) PRIMARY KEY,
					owner_id VARCHAR(100) NOT NULL,
					title VARCHAR(200) NOT NULL,
					location VARCHAR(200) NOT NULL DEFAULT '',
					property_type VARCHAR(50) NOT NULL DEFAULT 'residential',
					description TEXT NOT NULL DEFAULT '',
					status VARCHAR(20) NOT NULL DEFAULT 'planning',
					square_feet DOUBLE PRECISION NOT NULL,
					rooms INTEGER NOT NULL,
					floors INTEGER NOT NULL,
					bathrooms INTEGER NOT NULL,
					budget_tier VARCHAR(10) NOT NULL,
					estimate JSONB NOT NULL,
					model_version VARCHAR(20) NOT NULL,
					total_cost NUMERIC(16, 2) NOT NULL,
					total_days INTEGER NOT NULL,
					created_at TIMESTAMP DEFAULT NOW(),
					updated_at TIMESTAMP DEFAULT NOW(),
					CONSTRAINT chk_project_status CHECK (status IN ('planning', 'in_progress', 'completed', 'cancelled')),
					CONSTRAINT chk_project_tier CHECK (budget_tier IN ('low', 'medium', 'high')),
					CONSTRAINT chk_project_inputs CHECK (square_feet > 0 AND floors >= 1 AND rooms >= 0 AND bathrooms >= 0)
				);
			`,
			Down: `
				DROP TABLE IF EXISTS projects;
			`,
		},
		{
			Version: 3,
			Name:    "create_project_indexes",
			Up: `
				CREATE INDEX idx_projects_owner_created ON projects(owner_id, created_at DESC);
				CREATE INDEX idx_projects_status ON projects(status);
				CREATE INDEX idx_projects_model_version ON projects(model_version);
			`,
			Down: `
				DROP INDEX IF EXISTS idx_projects_model_version;
				DROP INDEX IF EXISTS idx_projects_status;
				DROP INDEX IF EXISTS idx_projects_owner_created;
			`,
		},
		{
			Version: 4,
			Name:    "widen_project_text_columns",
			Up: `
				-- Os textos são guardados com escape de HTML, que pode quintuplicar o tamanho
				ALTER TABLE projects ALTER COLUMN title TYPE VARCHAR(1000);
				ALTER TABLE projects ALTER COLUMN location TYPE VARCHAR(1000);
				ALTER TABLE projects ALTER COLUMN property_type TYPE VARCHAR(500);
			`,
			Down: `
				ALTER TABLE projects ALTER COLUMN property_type TYPE VARCHAR(50);
				ALTER TABLE projects ALTER COLUMN location TYPE VARCHAR(200);
				ALTER TABLE projects ALTER COLUMN title TYPE VARCHAR(200);
			`,
		},
	}
}
